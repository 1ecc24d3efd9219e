package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytedocker/site/internal/content/domain"
)

func TestAddLogo(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.svc.now = func() time.Time { return time.UnixMilli(99) }

	_, err := f.svc.AddLogo(ctx, domain.LogoForm{}, nil)
	assert.True(t, domain.IsValidation(err))

	_, err = f.svc.AddLogo(ctx, domain.LogoForm{Title: "Go"}, nil)
	assert.True(t, domain.IsValidation(err))

	byURL, err := f.svc.AddLogo(ctx, domain.LogoForm{Title: "Go", URL: "https://go.dev/logo.svg"}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.LogoTypeURL, byURL.Type)
	assert.Empty(t, byURL.StoragePath)
	assert.Equal(t, int64(99), byURL.CreatedAt)

	uploaded, err := f.svc.AddLogo(ctx, domain.LogoForm{Title: "Redis"}, file("redis.png"))
	require.NoError(t, err)
	assert.Equal(t, domain.LogoTypeStorage, uploaded.Type)
	assert.Equal(t, "logos/1_redis.png", uploaded.StoragePath)
	assert.Equal(t, bucketURL+"logos/1_redis.png", uploaded.URL)

	list, err := f.svc.ListLogos(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestDeleteLogo(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	byURL, err := f.svc.AddLogo(ctx, domain.LogoForm{Title: "Go", URL: "https://go.dev/logo.svg"}, nil)
	require.NoError(t, err)
	uploaded, err := f.svc.AddLogo(ctx, domain.LogoForm{Title: "Redis"}, file("redis.png"))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteLogo(ctx, byURL.ID))
	assert.Empty(t, f.media.deleted)

	require.NoError(t, f.svc.DeleteLogo(ctx, uploaded.ID))
	assert.Equal(t, []string{uploaded.StoragePath}, f.media.deleted)

	assert.ErrorIs(t, f.svc.DeleteLogo(ctx, uploaded.ID), domain.ErrLogoNotFound)
}
