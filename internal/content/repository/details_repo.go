package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/bytedocker/site/internal/content/domain"
)

const serviceDetailsCollection = "serviceDetails"

// DetailSyncPlan lists the writes that bring serviceDetails in line with the
// service cards. Refresh holds cards whose title drifted from their detail.
type DetailSyncPlan struct {
	Create  []domain.ServiceDetail
	Refresh []domain.Service
	Remove  []string
	Now     int64
}

func (p DetailSyncPlan) Changed() bool {
	return len(p.Create) > 0 || len(p.Refresh) > 0 || len(p.Remove) > 0
}

type ServiceDetailRepository struct {
	client *firestore.Client
	col    docCollection[domain.ServiceDetail]
}

func NewServiceDetailRepository(client *firestore.Client) *ServiceDetailRepository {
	return &ServiceDetailRepository{
		client: client,
		col: docCollection[domain.ServiceDetail]{
			client:   client,
			name:     serviceDetailsCollection,
			notFound: domain.ErrServiceDetailNotFound,
			setID:    func(d *domain.ServiceDetail, id string) { d.ID = id },
		},
	}
}

func (r *ServiceDetailRepository) List(ctx context.Context) ([]domain.ServiceDetail, error) {
	return r.col.all(ctx)
}

func (r *ServiceDetailRepository) Get(ctx context.Context, id string) (*domain.ServiceDetail, error) {
	return r.col.get(ctx, id)
}

func (r *ServiceDetailRepository) Update(ctx context.Context, d *domain.ServiceDetail) error {
	return r.col.replace(ctx, d.ID, d)
}

// ApplySync commits a plan atomically.
func (r *ServiceDetailRepository) ApplySync(ctx context.Context, plan DetailSyncPlan) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for i := range plan.Create {
			if err := tx.Set(r.col.ref(plan.Create[i].ID), &plan.Create[i]); err != nil {
				return err
			}
		}
		for _, card := range plan.Refresh {
			err := tx.Set(r.col.ref(card.ID), map[string]interface{}{
				"title":     card.Title,
				"updatedAt": plan.Now,
			}, firestore.MergeAll)
			if err != nil {
				return err
			}
		}
		for _, id := range plan.Remove {
			if err := tx.Delete(r.col.ref(id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sync service details: %w", err)
	}
	return nil
}
