// Package devtoken mints HS256-signed bearer tokens for local and CI
// environments. The claim shape mirrors Firebase ID tokens so the same
// middleware path handles both providers.
package devtoken

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Params captures the claims required to mint a dev token. No environment
// variables are read so the builder stays deterministic for tooling.
type Params struct {
	UserID     string        // user_id/sub/uid (required)
	Email      string        // email claim (required)
	Name       string        // display name (optional)
	Superadmin bool          // superadmin custom claim
	ExpiresIn  time.Duration // relative expiry; default 1h if zero
	Issuer     string        // optional override; defaults to clearstaff-dev
}

// Build returns a signed JWT string for the given params.
func Build(p Params, secret string, now time.Time) (string, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return "", errors.New("userID is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return "", errors.New("email is required")
	}
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("signing secret is required")
	}

	if now.IsZero() {
		now = time.Now().UTC()
	}

	expiresIn := p.ExpiresIn
	if expiresIn == 0 {
		expiresIn = time.Hour
	}

	issuer := p.Issuer
	if strings.TrimSpace(issuer) == "" {
		issuer = "clearstaff-dev"
	}

	claims := jwt.MapClaims{
		"iss":       issuer,
		"sub":       p.UserID,
		"user_id":   p.UserID,
		"auth_time": now.Unix(),
		"iat":       now.Unix(),
		"exp":       now.Add(expiresIn).Unix(),
		"email":     p.Email,
	}
	if p.Name != "" {
		claims["name"] = p.Name
	}
	if p.Superadmin {
		claims["superadmin"] = true
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
