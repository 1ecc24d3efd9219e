package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytedocker/site/internal/content/domain"
)

func clientForm(name string) domain.ClientForm {
	return domain.ClientForm{
		CompanyName: name,
		Industry:    "Fintech",
		Product:     "Payments",
		ScopeOfWork: "Backend",
		Description: "Built the ledger",
		Feedback:    domain.Feedback{Message: "Great", Rating: 5},
	}
}

func TestCreateClient(t *testing.T) {
	ctx := context.Background()

	t.Run("both images required", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreateClient(ctx, clientForm("Nexus"), file("logo.png"), nil)
		assert.ErrorIs(t, err, domain.ErrImageRequired)
	})

	t.Run("rating out of range", func(t *testing.T) {
		f := newFixture()
		form := clientForm("Nexus")
		form.Feedback.Rating = 6
		_, err := f.svc.CreateClient(ctx, form, file("l.png"), file("i.png"))
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "Rating must be between 1 and 5.", ve.Message)
	})

	t.Run("creates with slug id", func(t *testing.T) {
		f := newFixture()
		c, err := f.svc.CreateClient(ctx, clientForm("Nexus Fintech!"), file("l.png"), file("i.png"))
		require.NoError(t, err)
		assert.Equal(t, "nexus-fintech", c.ID)
		assert.Equal(t, bucketURL+"client-logos/u1-l.png", c.LogoURL)
		assert.Equal(t, bucketURL+"client-images/u2-i.png", c.ImageURL)
	})

	t.Run("duplicate company", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreateClient(ctx, clientForm("Nexus Fintech"), file("l.png"), file("i.png"))
		require.NoError(t, err)

		_, err = f.svc.CreateClient(ctx, clientForm("Nexus Fintech"), file("l.png"), file("i.png"))
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
		assert.EqualError(t, err, `Client "Nexus Fintech" already exists.`)
		assert.Len(t, f.media.uploaded, 2, "no uploads for a duplicate")
	})

	t.Run("failed write discards both uploads", func(t *testing.T) {
		f := newFixture()
		f.clients.failPut = errBoom
		_, err := f.svc.CreateClient(ctx, clientForm("Nexus"), file("l.png"), file("i.png"))
		assert.ErrorIs(t, err, errBoom)
		assert.ElementsMatch(t, f.media.uploaded, f.media.deleted)
	})

	t.Run("second upload failure discards the first", func(t *testing.T) {
		f := newFixture()
		f.media.failAfter = 1
		_, err := f.svc.CreateClient(ctx, clientForm("Nexus"), file("l.png"), file("i.png"))
		assert.Error(t, err)
		assert.Equal(t, []string{"client-logos/u1-l.png"}, f.media.deleted)
	})
}

func TestUpdateClient(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created, err := f.svc.CreateClient(ctx, clientForm("Nexus"), file("l.png"), file("i.png"))
	require.NoError(t, err)

	form := clientForm("Nexus")
	form.Description = "Rebuilt the ledger"
	updated, err := f.svc.UpdateClient(ctx, created.ID, form, nil, file("i2.png"))
	require.NoError(t, err)
	assert.Equal(t, created.LogoURL, updated.LogoURL)
	assert.NotEqual(t, created.ImageURL, updated.ImageURL)
	assert.Equal(t, []string{"client-images/u2-i.png"}, f.media.deleted)

	stored, err := f.svc.GetClient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rebuilt the ledger", stored.Description)

	_, err = f.svc.UpdateClient(ctx, "ghost", form, nil, nil)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestDeleteClient(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c, err := f.svc.CreateClient(ctx, clientForm("Nexus"), file("l.png"), file("i.png"))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteClient(ctx, c.ID))
	assert.ElementsMatch(t, []string{"client-logos/u1-l.png", "client-images/u2-i.png"}, f.media.deleted)

	_, err = f.svc.GetClient(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
	assert.ErrorIs(t, f.svc.DeleteClient(ctx, c.ID), domain.ErrClientNotFound)
}

func TestEnsureClients(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	got, err := f.svc.EnsureClients(ctx)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "GreenLeaf Organics", got[0].CompanyName, "sorted by name")
	assert.Equal(t, "greenleaf-organics", got[0].ID)

	require.NoError(t, f.svc.DeleteClient(ctx, "greenleaf-organics"))
	got, err = f.svc.EnsureClients(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 4, "non-empty collection is left alone")
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	res, err := f.svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Services: true, Clients: true}, res)

	res, err = f.svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, res)
}
