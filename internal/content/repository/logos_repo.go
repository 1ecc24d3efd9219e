package repository

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"

	"github.com/bytedocker/site/internal/content/domain"
)

const logosCollection = "logos"

type LogoRepository struct {
	client *firestore.Client
	col    docCollection[domain.Logo]
}

func NewLogoRepository(client *firestore.Client) *LogoRepository {
	return &LogoRepository{
		client: client,
		col: docCollection[domain.Logo]{
			client:   client,
			name:     logosCollection,
			notFound: domain.ErrLogoNotFound,
			setID:    func(l *domain.Logo, id string) { l.ID = id },
		},
	}
}

func (r *LogoRepository) List(ctx context.Context) ([]domain.Logo, error) {
	logos, err := r.col.all(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(logos, func(i, j int) bool { return logos[i].CreatedAt < logos[j].CreatedAt })
	return logos, nil
}

func (r *LogoRepository) Get(ctx context.Context, id string) (*domain.Logo, error) {
	return r.col.get(ctx, id)
}

// Create stores l under an auto-generated id and sets l.ID.
func (r *LogoRepository) Create(ctx context.Context, l *domain.Logo) error {
	ref := r.client.Collection(logosCollection).NewDoc()
	if _, err := ref.Create(ctx, l); err != nil {
		return fmt.Errorf("create logo: %w", err)
	}
	l.ID = ref.ID
	return nil
}

func (r *LogoRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}
