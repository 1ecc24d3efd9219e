package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bytedocker/site/internal/content/domain"
)

const (
	contentCollection  = "content"
	servicesDocumentID = "services"
	cardsField         = "cards"
)

// ServiceRepository stores service cards as the "cards" array of the
// content/services document.
type ServiceRepository struct {
	client *firestore.Client
}

func NewServiceRepository(client *firestore.Client) *ServiceRepository {
	return &ServiceRepository{client: client}
}

func (r *ServiceRepository) doc() *firestore.DocumentRef {
	return r.client.Collection(contentCollection).Doc(servicesDocumentID)
}

type cardsDocument struct {
	Cards []domain.Service `firestore:"cards"`
}

// Cards returns the stored cards, or domain.ErrContentNotFound when the
// document does not exist yet.
func (r *ServiceRepository) Cards(ctx context.Context) ([]domain.Service, error) {
	snap, err := r.doc().Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get content/services: %w", err)
	}
	var d cardsDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode content/services: %w", err)
	}
	return d.Cards, nil
}

// Append adds a card with an array union, creating the document if needed.
func (r *ServiceRepository) Append(ctx context.Context, card domain.Service) error {
	_, err := r.doc().Set(ctx, map[string]interface{}{
		cardsField: firestore.ArrayUnion(cardMap(card)),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("append service card: %w", err)
	}
	return nil
}

// Mutate runs a read-modify-write of the cards array inside a transaction.
func (r *ServiceRepository) Mutate(ctx context.Context, fn func([]domain.Service) ([]domain.Service, error)) error {
	ref := r.doc()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return domain.ErrContentNotFound
		}
		if err != nil {
			return err
		}
		var d cardsDocument
		if err := snap.DataTo(&d); err != nil {
			return err
		}
		next, err := fn(d.Cards)
		if err != nil {
			return err
		}
		return tx.Set(ref, map[string]interface{}{cardsField: cardMaps(next)}, firestore.MergeAll)
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.Is(err, domain.ErrServiceNotFound) || errors.Is(err, domain.ErrContentNotFound) || errors.As(err, &verr) {
			return err
		}
		return fmt.Errorf("update service cards: %w", err)
	}
	return nil
}

// Seed writes cards only when the document does not exist. It reports
// whether it wrote anything.
func (r *ServiceRepository) Seed(ctx context.Context, cards []domain.Service) (bool, error) {
	_, err := r.doc().Create(ctx, map[string]interface{}{cardsField: cardMaps(cards)})
	if status.Code(err) == codes.AlreadyExists {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed content/services: %w", err)
	}
	return true, nil
}

func cardMap(s domain.Service) map[string]interface{} {
	return map[string]interface{}{
		"id":          s.ID,
		"title":       s.Title,
		"alt":         s.Alt,
		"description": s.Description,
		"src":         s.Src,
	}
}

func cardMaps(cards []domain.Service) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardMap(c))
	}
	return out
}
