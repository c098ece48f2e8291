package firebase

import (
	"context"
	"fmt"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// Identity is the verified subset of a Firebase ID token.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

// Verify checks idToken against Firebase and extracts the caller's identity.
func (a *App) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := a.AuthClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return IdentityFromClaims(token.UID, token.Claims)
}

// IdentityFromClaims builds an Identity from verified token claims. A verified
// email claim is required since local accounts are keyed by email.
func IdentityFromClaims(uid string, claims map[string]interface{}) (*Identity, error) {
	email, _ := claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("firebase token for %s carries no email", uid)
	}
	if verified, _ := claims["email_verified"].(bool); !verified {
		return nil, fmt.Errorf("firebase token for %s carries an unverified email", uid)
	}
	id := &Identity{UID: uid, Email: email, EmailVerified: true}
	id.Name, _ = claims["name"].(string)
	id.Picture, _ = claims["picture"].(string)
	return id, nil
}
