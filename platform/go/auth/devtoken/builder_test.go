package devtoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "builder-test-secret"

func parseClaims(t *testing.T, token string, now time.Time) jwt.MapClaims {
	t.Helper()

	claims := jwt.MapClaims{}
	parsed, err := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return now })).
		ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return claims
}

func TestBuildClaimShape(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	token, err := Build(Params{
		UserID:     "uid-1",
		Email:      "one@example.com",
		Name:       "User One",
		Superadmin: true,
		ExpiresIn:  30 * time.Minute,
	}, testSecret, now)
	require.NoError(t, err)

	claims := parseClaims(t, token, now)
	require.Equal(t, "uid-1", claims["sub"])
	require.Equal(t, "uid-1", claims["user_id"])
	require.Equal(t, "one@example.com", claims["email"])
	require.Equal(t, "User One", claims["name"])
	require.Equal(t, true, claims["superadmin"])
	require.Equal(t, "clearstaff-dev", claims["iss"])
	require.EqualValues(t, now.Add(30*time.Minute).Unix(), claims["exp"])
}

func TestBuildDefaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	token, err := Build(Params{UserID: "uid-1", Email: "one@example.com"}, testSecret, now)
	require.NoError(t, err)

	claims := parseClaims(t, token, now)
	require.EqualValues(t, now.Add(time.Hour).Unix(), claims["exp"])
	_, hasName := claims["name"]
	require.False(t, hasName)
	_, hasSuperadmin := claims["superadmin"]
	require.False(t, hasSuperadmin)
}

func TestBuildValidation(t *testing.T) {
	t.Parallel()

	_, err := Build(Params{Email: "one@example.com"}, testSecret, time.Now())
	require.Error(t, err)

	_, err = Build(Params{UserID: "uid-1"}, testSecret, time.Now())
	require.Error(t, err)

	_, err = Build(Params{UserID: "uid-1", Email: "one@example.com"}, "", time.Now())
	require.Error(t, err)
}
