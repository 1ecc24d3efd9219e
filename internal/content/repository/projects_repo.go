package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/bytedocker/site/internal/content/domain"
)

const projectsCollection = "projects"

type ProjectRepository struct {
	col docCollection[domain.Project]
}

func NewProjectRepository(client *firestore.Client) *ProjectRepository {
	return &ProjectRepository{
		col: docCollection[domain.Project]{
			client:   client,
			name:     projectsCollection,
			notFound: domain.ErrProjectNotFound,
			setID:    func(p *domain.Project, id string) { p.ID = id },
		},
	}
}

func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	return r.col.all(ctx)
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	return r.col.get(ctx, id)
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	return r.col.create(ctx, p.ID, p)
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	return r.col.replace(ctx, p.ID, p)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}
