package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/bytedocker/site/config"
)

var firebaseScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/datastore",
	"https://www.googleapis.com/auth/devstorage.full_control",
	"https://www.googleapis.com/auth/firebase",
	"https://www.googleapis.com/auth/identitytoolkit",
	"https://www.googleapis.com/auth/userinfo.email",
}

// InitializeFirebase initializes the Firebase Admin SDK from a credentials
// file or, failing that, from inline service account JSON.
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*firebase.App, error) {
	opt, err := credentialsOption(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fbCfg := &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}
	app, err := firebase.NewApp(ctx, fbCfg, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}

func credentialsOption(ctx context.Context, cfg *config.FirebaseConfig) (option.ClientOption, error) {
	if cfg.CredentialsPath != "" {
		return option.WithCredentialsFile(cfg.CredentialsPath), nil
	}
	if cfg.ServiceAccountJSON == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH or FIREBASE_SERVICE_ACCOUNT is required")
	}

	raw, err := normalizeServiceAccount([]byte(cfg.ServiceAccountJSON))
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, firebaseScopes...)
	if err != nil {
		return nil, fmt.Errorf("parse FIREBASE_SERVICE_ACCOUNT: %w", err)
	}
	if cfg.ProjectID == "" {
		cfg.ProjectID = creds.ProjectID
	}
	return option.WithCredentials(creds), nil
}

// normalizeServiceAccount unescapes a private key whose newlines arrived as
// literal "\n" sequences, which happens when the JSON is pasted into an env
// var.
func normalizeServiceAccount(raw []byte) ([]byte, error) {
	var sa map[string]interface{}
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("FIREBASE_SERVICE_ACCOUNT is not valid JSON: %w", err)
	}
	key, ok := sa["private_key"].(string)
	if !ok || !strings.Contains(key, `\n`) {
		return raw, nil
	}
	sa["private_key"] = strings.ReplaceAll(key, `\n`, "\n")
	return json.Marshal(sa)
}
