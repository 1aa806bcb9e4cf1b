package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input   string
		minutes int
		wantErr bool
	}{
		{input: "00:00", minutes: 0},
		{input: "09:00", minutes: 540},
		{input: "17:30", minutes: 1050},
		{input: "23:59", minutes: 1439},
		{input: "24:00", wantErr: true},
		{input: "9:00", wantErr: true},
		{input: "09:60", wantErr: true},
		{input: "0900", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseClock(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.minutes, got)
		})
	}
}

func TestFormatClockRoundTrips(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"00:00", "08:05", "12:30", "23:59"} {
		minutes, err := ParseClock(s)
		require.NoError(t, err)
		require.Equal(t, s, FormatClock(minutes))
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{name: "identical", aStart: 540, aEnd: 1020, bStart: 540, bEnd: 1020, want: true},
		{name: "partial overlap", aStart: 540, aEnd: 780, bStart: 720, bEnd: 960, want: true},
		{name: "contained", aStart: 540, aEnd: 1020, bStart: 600, bEnd: 660, want: true},
		{name: "touching boundary", aStart: 540, aEnd: 720, bStart: 720, bEnd: 900, want: false},
		{name: "touching boundary reversed", aStart: 720, aEnd: 900, bStart: 540, bEnd: 720, want: false},
		{name: "disjoint", aStart: 540, aEnd: 600, bStart: 720, bEnd: 780, want: false},
		{name: "one minute shared", aStart: 540, aEnd: 721, bStart: 720, bEnd: 900, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// Overlap is symmetric.
			require.Equal(t, tc.want, overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}
