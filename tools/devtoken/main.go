package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/clearstaff/hr-backoffice/platform/go/auth/devtoken"
)

func main() {
	userID := flag.String("user-id", "", "user_id/sub/uid claim")
	email := flag.String("email", "", "email claim")
	name := flag.String("name", "", "display name")
	superadmin := flag.Bool("superadmin", false, "set the superadmin custom claim")
	expiresIn := flag.Duration("expires-in", time.Hour, "token lifetime (duration, e.g. 30m, 2h)")
	issuer := flag.String("issuer", "", "override iss (defaults to clearstaff-dev)")
	secret := flag.String("secret", os.Getenv("DEV_TOKEN_SECRET"), "HS256 signing secret (defaults to DEV_TOKEN_SECRET)")

	flag.Parse()

	params := devtoken.Params{
		UserID:     strings.TrimSpace(*userID),
		Email:      strings.TrimSpace(*email),
		Name:       strings.TrimSpace(*name),
		Superadmin: *superadmin,
		ExpiresIn:  *expiresIn,
		Issuer:     strings.TrimSpace(*issuer),
	}

	token, err := devtoken.Build(params, *secret, time.Now().UTC())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
