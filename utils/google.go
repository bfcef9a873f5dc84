package utils

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/auth/credentials/idtoken"
)

// GoogleIdentity is the subset of a verified Google ID token we use.
type GoogleIdentity struct {
	Email string
	Name  string
}

// GoogleVerifier validates Google ID tokens issued for one OAuth client.
type GoogleVerifier struct {
	ClientID string
}

func (v GoogleVerifier) Verify(ctx context.Context, rawToken string) (GoogleIdentity, error) {
	if v.ClientID == "" {
		return GoogleIdentity{}, errors.New("google login is not configured")
	}
	payload, err := idtoken.Validate(ctx, rawToken, v.ClientID)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("validate google id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return GoogleIdentity{}, errors.New("google email is not verified")
	}
	if email == "" {
		return GoogleIdentity{}, errors.New("google token has no email")
	}
	return GoogleIdentity{Email: email, Name: name}, nil
}
