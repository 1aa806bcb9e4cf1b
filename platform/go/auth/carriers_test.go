package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBearerHeaderCarrier(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		token  string
		found  bool
	}{
		{name: "standard bearer", header: "Bearer abc123", token: "abc123", found: true},
		{name: "lowercase scheme", header: "bearer abc123", token: "abc123", found: true},
		{name: "extra whitespace", header: "Bearer   abc123  ", token: "abc123", found: true},
		{name: "empty token", header: "Bearer ", found: false},
		{name: "wrong scheme", header: "Basic abc123", found: false},
		{name: "no header", header: "", found: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			token, found := BearerHeaderCarrier(r)
			require.Equal(t, tc.found, found)
			if tc.found {
				require.Equal(t, tc.token, token)
			}
		})
	}
}

func TestExtractTokenPrecedence(t *testing.T) {
	t.Parallel()

	t.Run("authorization beats id token header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer from-bearer")
		r.Header.Set("X-Id-Token", "from-header")

		token, found := ExtractToken(r, DefaultCarriers())
		require.True(t, found)
		require.Equal(t, "from-bearer", token)
	})

	t.Run("id token header beats cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Id-Token", "from-header")
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})

		token, found := ExtractToken(r, DefaultCarriers())
		require.True(t, found)
		require.Equal(t, "from-header", token)
	})

	t.Run("cookie is the fallback", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})

		token, found := ExtractToken(r, DefaultCarriers())
		require.True(t, found)
		require.Equal(t, "from-cookie", token)
	})

	t.Run("nothing found", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, found := ExtractToken(r, DefaultCarriers())
		require.False(t, found)
	})
}
