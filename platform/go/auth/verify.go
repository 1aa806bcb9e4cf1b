package auth

import (
	"context"
	"errors"
	"fmt"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
)

// Verification failure taxonomy. Callers branch with errors.Is so each class
// can map to a distinct response reason.
var (
	// ErrNoCredential means no carrier produced a token.
	ErrNoCredential = errors.New("no credential supplied")
	// ErrTokenMalformed means the token could not be parsed or its signature rejected.
	ErrTokenMalformed = errors.New("credential malformed")
	// ErrTokenExpired means the token's validity window has passed.
	ErrTokenExpired = errors.New("credential expired")
	// ErrTokenRevoked means the token was explicitly invalidated after issuance.
	ErrTokenRevoked = errors.New("credential revoked")
)

// VerifyFunc validates a raw credential and returns its claims map.
// Implementations must return errors wrapping the taxonomy sentinels above.
type VerifyFunc func(ctx context.Context, token string) (map[string]interface{}, error)

// FirebaseTokenVerifier validates tokens against Firebase Auth in two phases:
// signature/shape first, then revocation status.
func FirebaseTokenVerifier(fbAuth *firebaseauth.Client) VerifyFunc {
	return func(ctx context.Context, token string) (map[string]interface{}, error) {
		t, err := fbAuth.VerifyIDTokenAndCheckRevoked(ctx, token)
		if err != nil {
			return nil, classifyFirebaseError(err)
		}

		claims := make(map[string]interface{}, len(t.Claims)+2)
		for k, v := range t.Claims {
			claims[k] = v
		}
		claims["uid"] = t.UID
		claims["sub"] = t.Subject

		return claims, nil
	}
}

func classifyFirebaseError(err error) error {
	switch {
	case firebaseauth.IsIDTokenExpired(err):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case firebaseauth.IsIDTokenRevoked(err), firebaseauth.IsUserDisabled(err):
		return fmt.Errorf("%w: %v", ErrTokenRevoked, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}

// DevTokenVerifier validates HS256 tokens minted by the devtoken tooling.
// Expiry is still enforced so the expired/malformed split behaves as in
// production. Never enable outside local and CI environments.
func DevTokenVerifier(secret string) VerifyFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	return func(ctx context.Context, token string) (map[string]interface{}, error) {
		claims := jwt.MapClaims{}
		_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}

		return map[string]interface{}(claims), nil
	}
}
