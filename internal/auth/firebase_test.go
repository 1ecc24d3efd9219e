package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytedocker/site/config"
)

func TestNormalizeServiceAccount(t *testing.T) {
	raw := []byte(`{"type":"service_account","private_key":"-----BEGIN KEY-----\\nabc\\n-----END KEY-----\\n"}`)
	out, err := normalizeServiceAccount(raw)
	require.NoError(t, err)

	var sa map[string]string
	require.NoError(t, json.Unmarshal(out, &sa))
	assert.Equal(t, "-----BEGIN KEY-----\nabc\n-----END KEY-----\n", sa["private_key"])

	clean := []byte(`{"private_key":"line1\nline2"}`)
	out, err = normalizeServiceAccount(clean)
	require.NoError(t, err)
	assert.Equal(t, clean, out, "already well-formed keys pass through untouched")

	_, err = normalizeServiceAccount([]byte("not json"))
	assert.ErrorContains(t, err, "FIREBASE_SERVICE_ACCOUNT")
}

func TestCredentialsOption(t *testing.T) {
	ctx := context.Background()

	opt, err := credentialsOption(ctx, &config.FirebaseConfig{CredentialsPath: "/secrets/sa.json"})
	require.NoError(t, err)
	assert.NotNil(t, opt)

	_, err = credentialsOption(ctx, &config.FirebaseConfig{})
	assert.Error(t, err)

	_, err = credentialsOption(ctx, &config.FirebaseConfig{ServiceAccountJSON: `{"type":"service_account"`})
	assert.ErrorContains(t, err, "not valid JSON")
}
