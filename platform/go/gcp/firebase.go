package gcp

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/clearstaff/hr-backoffice/platform/go/setups"
)

// GetApp creates a Firebase App instance, loading explicit service-account
// credentials when a path is provided and falling back to ADC otherwise.
func GetApp(ctx context.Context, pathToJSON *string) (*firebase.App, error) {
	if pathToJSON != nil {
		return firebase.NewApp(ctx, nil, option.WithCredentialsFile(*pathToJSON))
	}
	return firebase.NewApp(ctx, nil)
}

// InitFirebaseAuth initializes the Firebase App and returns an Auth client.
// Auth is the only Firebase surface this service consumes.
func InitFirebaseAuth(ctx context.Context) (*firebase.App, *firebaseauth.Client, error) {
	firebaseApp, err := GetApp(ctx, setups.DevFirebasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firebase app [%w]", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing firebase auth [%w]", err)
	}

	return firebaseApp, fbAuth, nil
}
