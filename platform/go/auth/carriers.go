package auth

import (
	"net/http"
	"strings"
)

// SessionCookieName is the cookie checked by the lowest-priority carrier.
const SessionCookieName = "session"

// TokenCarrier attempts to pull a raw credential from one transport location.
// Carriers are tried in a fixed order; the first non-empty result wins.
type TokenCarrier func(r *http.Request) (string, bool)

// BearerHeaderCarrier reads "Authorization: Bearer <token>". The scheme match
// is case-insensitive.
func BearerHeaderCarrier(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// IDTokenHeaderCarrier reads the X-Id-Token header used by clients that
// reserve Authorization for other schemes.
func IDTokenHeaderCarrier(r *http.Request) (string, bool) {
	token := strings.TrimSpace(r.Header.Get("X-Id-Token"))
	return token, token != ""
}

// SessionCookieCarrier reads the session cookie set by browser logins.
func SessionCookieCarrier(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie == nil {
		return "", false
	}
	token := strings.TrimSpace(cookie.Value)
	return token, token != ""
}

// DefaultCarriers is the documented credential precedence order.
func DefaultCarriers() []TokenCarrier {
	return []TokenCarrier{
		BearerHeaderCarrier,
		IDTokenHeaderCarrier,
		SessionCookieCarrier,
	}
}

// ExtractToken walks the carriers in order and returns the first credential found.
func ExtractToken(r *http.Request, carriers []TokenCarrier) (string, bool) {
	for _, carrier := range carriers {
		if token, ok := carrier(r); ok {
			return token, true
		}
	}
	return "", false
}
