package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytedocker/site/internal/content/domain"
)

func TestProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	form := domain.ProjectForm{ClientName: "Nexus", ProjectType: "Web", Year: 2024, Description: "Portal"}

	_, err := f.svc.CreateProject(ctx, form, nil)
	assert.ErrorIs(t, err, domain.ErrImageRequired)

	_, err = f.svc.CreateProject(ctx, domain.ProjectForm{ClientName: "x"}, file("p.png"))
	assert.True(t, domain.IsValidation(err))

	p, err := f.svc.CreateProject(ctx, form, file("p.png"))
	require.NoError(t, err)
	assert.Equal(t, "id-1", p.ID)
	assert.Equal(t, bucketURL+"projects/u1-p.png", p.ImageURL)

	older := form
	older.Year = 2021
	older.ClientName = "Acme"
	_, err = f.svc.CreateProject(ctx, older, file("q.png"))
	require.NoError(t, err)

	list, err := f.svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2024, list[0].Year, "newest first")

	form.Description = "Portal v2"
	up, err := f.svc.UpdateProject(ctx, p.ID, form, file("p2.png"))
	require.NoError(t, err)
	assert.Equal(t, "Portal v2", up.Description)
	assert.Equal(t, []string{"projects/u1-p.png"}, f.media.deleted)

	require.NoError(t, f.svc.DeleteProject(ctx, p.ID))
	assert.Contains(t, f.media.deleted, "projects/u3-p2.png")

	_, err = f.svc.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	_, err = f.svc.UpdateProject(ctx, p.ID, form, nil)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}
