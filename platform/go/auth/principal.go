package auth

import (
	"context"
	"errors"
)

type ctxKey string

const ctxPrincipal ctxKey = "CLEARSTAFF_PRINCIPAL"

// Principal is the verified identity for one request. It is immutable once
// attached to the context; downstream code must never mutate it.
type Principal struct {
	UID        string
	Email      string
	Name       *string
	Superadmin bool
	Claims     map[string]interface{}
}

// WithPrincipal returns a derived context carrying the verified principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

// PrincipalFromContext extracts the verified principal, if present.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	v := ctx.Value(ctxPrincipal)
	if v == nil {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}

// ExtractPrincipal converts a verified claims map into a Principal.
// The superadmin capability is granted only by the "superadmin" custom claim
// or a top-level role claim of "superadmin"; nothing else elevates.
func ExtractPrincipal(claims map[string]interface{}) (*Principal, error) {
	if claims == nil {
		return nil, errors.New("missing claims")
	}

	uid := fallbackStringClaim(claims, []string{"uid", "user_id", "sub"})
	if uid == "" {
		return nil, errors.New("claims carry no user id")
	}

	return &Principal{
		UID:        uid,
		Email:      stringClaim(claims, "email"),
		Name:       optionalStringClaim(claims, "name"),
		Superadmin: boolClaim(claims, "superadmin") || stringClaim(claims, "role") == "superadmin",
		Claims:     claims,
	}, nil
}

func boolClaim(claims map[string]interface{}, key string) bool {
	v, ok := claims[key].(bool)
	return ok && v
}

func stringClaim(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}

func optionalStringClaim(claims map[string]interface{}, key string) *string {
	if v, ok := claims[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func fallbackStringClaim(claims map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if v := stringClaim(claims, key); v != "" {
			return v
		}
	}
	return ""
}
