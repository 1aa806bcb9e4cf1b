package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	platformauth "github.com/clearstaff/hr-backoffice/platform/go/auth"
	"github.com/clearstaff/hr-backoffice/platform/go/gcp"
)

// buildAuthMiddleware selects the credential verifier by provider. The dev
// verifier keeps the same failure taxonomy as Firebase so clients behave
// identically against either.
func buildAuthMiddleware(ctx context.Context, cfg config, logger *zap.Logger) func(http.Handler) http.Handler {
	var verify platformauth.VerifyFunc
	switch cfg.AuthProvider {
	case "firebase":
		_, fbAuth, err := gcp.InitFirebaseAuth(ctx)
		if err != nil {
			logger.Fatal("init firebase auth", zap.Error(err))
		}
		verify = platformauth.FirebaseTokenVerifier(fbAuth)
	case "dev":
		if cfg.DevTokenSecret == "" {
			logger.Fatal("DEV_TOKEN_SECRET required when AUTH_PROVIDER=dev")
		}
		logger.Warn("using dev token verifier; do not use in production")
		verify = platformauth.DevTokenVerifier(cfg.DevTokenSecret)
	default:
		logger.Fatal("unsupported auth provider", zap.String("provider", cfg.AuthProvider))
	}

	return platformauth.Authenticate(verify, platformauth.DefaultCarriers())
}
