package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/activity"
	"github.com/bytedocker/site/internal/content/domain"
	"github.com/bytedocker/site/internal/logging"
	"github.com/bytedocker/site/internal/media"
)

// ListServices returns the stored cards. A missing document is an empty
// list, and a single malformed card empties the whole list.
func (s *ContentService) ListServices(ctx context.Context) ([]domain.Service, error) {
	cards, err := s.services.Cards(ctx)
	if errors.Is(err, domain.ErrContentNotFound) {
		return []domain.Service{}, nil
	}
	if err != nil {
		return nil, err
	}
	return validCards(ctx, cards), nil
}

func validCards(ctx context.Context, cards []domain.Service) []domain.Service {
	for _, c := range cards {
		if err := c.Validate(); err != nil {
			logging.Op(ctx, "content.services").Warn("stored service cards failed validation",
				zap.String("service_id", c.ID), zap.Error(err))
			return []domain.Service{}
		}
	}
	if cards == nil {
		return []domain.Service{}
	}
	return cards
}

func (s *ContentService) GetService(ctx context.Context, id string) (*domain.Service, error) {
	cards, err := s.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].ID == id {
			return &cards[i], nil
		}
	}
	return nil, domain.ErrServiceNotFound
}

func (s *ContentService) AddService(ctx context.Context, form domain.ServiceForm, image *media.File) (*domain.Service, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, domain.ErrImageRequired
	}

	obj, err := s.media.Upload(ctx, servicesPrefix, *image)
	if err != nil {
		s.failed(domain.KindServices, activity.ActionCreate)
		return nil, err
	}

	card := domain.Service{
		ID:          s.newID(),
		Title:       form.Title,
		Alt:         form.Alt,
		Description: form.Description,
		Src:         obj.URL,
	}
	if err := s.services.Append(ctx, card); err != nil {
		s.discard(ctx, &obj)
		s.failed(domain.KindServices, activity.ActionCreate)
		return nil, err
	}

	s.changed(ctx, domain.KindServices, activity.ActionCreate, card.ID, card.Title, domain.KindServiceDetails)
	return &card, nil
}

// UpdateService replaces a card's text and, when image is set, its picture.
// The new image is stored before the card is rewritten and the old one is
// removed only after the write succeeds.
func (s *ContentService) UpdateService(ctx context.Context, id string, form domain.ServiceForm, image *media.File) (*domain.Service, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetService(ctx, id); err != nil {
		return nil, err
	}

	uploaded, err := s.uploadOptional(ctx, servicesPrefix, image)
	if err != nil {
		s.failed(domain.KindServices, activity.ActionUpdate)
		return nil, err
	}

	var updated domain.Service
	var oldSrc string
	err = s.services.Mutate(ctx, func(cards []domain.Service) ([]domain.Service, error) {
		for i := range cards {
			if cards[i].ID != id {
				continue
			}
			oldSrc = cards[i].Src
			updated = domain.Service{
				ID:          id,
				Title:       form.Title,
				Alt:         form.Alt,
				Description: form.Description,
				Src:         cards[i].Src,
			}
			if uploaded != nil {
				updated.Src = uploaded.URL
			}
			cards[i] = updated
			return cards, nil
		}
		return nil, domain.ErrServiceNotFound
	})
	if errors.Is(err, domain.ErrContentNotFound) {
		err = domain.ErrServiceNotFound
	}
	if err != nil {
		s.discard(ctx, uploaded)
		s.failed(domain.KindServices, activity.ActionUpdate)
		return nil, err
	}

	if uploaded != nil && oldSrc != updated.Src {
		s.media.DeleteByURL(ctx, oldSrc)
	}
	s.changed(ctx, domain.KindServices, activity.ActionUpdate, id, updated.Title, domain.KindServiceDetails)
	return &updated, nil
}

// DeleteService drops the card, then its image.
func (s *ContentService) DeleteService(ctx context.Context, id string) error {
	var removed domain.Service
	err := s.services.Mutate(ctx, func(cards []domain.Service) ([]domain.Service, error) {
		for i := range cards {
			if cards[i].ID == id {
				removed = cards[i]
				return append(cards[:i:i], cards[i+1:]...), nil
			}
		}
		return nil, domain.ErrServiceNotFound
	})
	if errors.Is(err, domain.ErrContentNotFound) {
		err = domain.ErrServiceNotFound
	}
	if err != nil {
		s.failed(domain.KindServices, activity.ActionDelete)
		return err
	}

	s.media.DeleteByURL(ctx, removed.Src)
	s.changed(ctx, domain.KindServices, activity.ActionDelete, id, removed.Title, domain.KindServiceDetails)
	return nil
}

// EnsureServices is the public read path: it writes the default cards the
// first time the document is missing.
func (s *ContentService) EnsureServices(ctx context.Context) ([]domain.Service, error) {
	cards, err := s.services.Cards(ctx)
	if err == nil {
		return validCards(ctx, cards), nil
	}
	if !errors.Is(err, domain.ErrContentNotFound) {
		return nil, err
	}

	defaults, err := defaultServices()
	if err != nil {
		return nil, err
	}
	wrote, err := s.services.Seed(ctx, defaults)
	if err != nil {
		return nil, err
	}
	if !wrote {
		// Someone else seeded between our read and write.
		return s.ListServices(ctx)
	}

	logging.Op(ctx, "content.services").Info("no services data found, uploaded defaults",
		zap.Int("cards", len(defaults)))
	s.changed(ctx, domain.KindServices, activity.ActionSeed, "content/services", "default cards")
	return defaults, nil
}
