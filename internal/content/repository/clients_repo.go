package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/bytedocker/site/internal/content/domain"
)

const clientsCollection = "clients"

type ClientRepository struct {
	client *firestore.Client
	col    docCollection[domain.Client]
}

func NewClientRepository(client *firestore.Client) *ClientRepository {
	return &ClientRepository{
		client: client,
		col: docCollection[domain.Client]{
			client:   client,
			name:     clientsCollection,
			notFound: domain.ErrClientNotFound,
			setID:    func(c *domain.Client, id string) { c.ID = id },
		},
	}
}

func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	return r.col.all(ctx)
}

func (r *ClientRepository) Get(ctx context.Context, id string) (*domain.Client, error) {
	return r.col.get(ctx, id)
}

// Create fails with domain.ErrAlreadyExists when the id is taken.
func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	return r.col.create(ctx, c.ID, c)
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	return r.col.replace(ctx, c.ID, c)
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}

func (r *ClientRepository) Empty(ctx context.Context) (bool, error) {
	return r.col.empty(ctx)
}

// SeedMany writes all clients in one transaction.
func (r *ClientRepository) SeedMany(ctx context.Context, clients []domain.Client) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for i := range clients {
			if err := tx.Set(r.col.ref(clients[i].ID), &clients[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed clients: %w", err)
	}
	return nil
}
