package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/activity"
	"github.com/bytedocker/site/internal/content/domain"
	"github.com/bytedocker/site/internal/logging"
	"github.com/bytedocker/site/internal/media"
)

func (s *ContentService) ListClients(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].CompanyName < clients[j].CompanyName
	})
	return clients, nil
}

func (s *ContentService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.clients.Get(ctx, id)
}

// CreateClient stores a new client keyed by its company-name slug. Both the
// logo and the main image are required.
func (s *ContentService) CreateClient(ctx context.Context, form domain.ClientForm, logo, image *media.File) (*domain.Client, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if logo == nil || image == nil {
		return nil, domain.ErrImageRequired
	}
	id := domain.ClientID(form.CompanyName)
	if id == "" {
		return nil, &domain.ValidationError{Message: "Company name must contain letters or digits."}
	}

	_, err := s.clients.Get(ctx, id)
	if err == nil {
		return nil, domain.ClientExists(form.CompanyName)
	}
	if !errors.Is(err, domain.ErrClientNotFound) {
		return nil, err
	}

	logoObj, err := s.media.Upload(ctx, clientLogosPrefix, *logo)
	if err != nil {
		s.failed(domain.KindClients, activity.ActionCreate)
		return nil, err
	}
	imageObj, err := s.media.Upload(ctx, clientImagesPrefix, *image)
	if err != nil {
		s.discard(ctx, &logoObj)
		s.failed(domain.KindClients, activity.ActionCreate)
		return nil, err
	}

	c := clientFromForm(id, form)
	c.LogoURL = logoObj.URL
	c.ImageURL = imageObj.URL

	if err := s.clients.Create(ctx, &c); err != nil {
		s.discard(ctx, &logoObj, &imageObj)
		s.failed(domain.KindClients, activity.ActionCreate)
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ClientExists(form.CompanyName)
		}
		return nil, err
	}

	s.changed(ctx, domain.KindClients, activity.ActionCreate, c.ID, c.CompanyName)
	return &c, nil
}

// UpdateClient rewrites a client's fields. The id stays fixed even if the
// company name is edited. Replaced images are deleted after the write.
func (s *ContentService) UpdateClient(ctx context.Context, id string, form domain.ClientForm, logo, image *media.File) (*domain.Client, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.clients.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	logoObj, err := s.uploadOptional(ctx, clientLogosPrefix, logo)
	if err != nil {
		s.failed(domain.KindClients, activity.ActionUpdate)
		return nil, err
	}
	imageObj, err := s.uploadOptional(ctx, clientImagesPrefix, image)
	if err != nil {
		s.discard(ctx, logoObj)
		s.failed(domain.KindClients, activity.ActionUpdate)
		return nil, err
	}

	c := clientFromForm(id, form)
	c.LogoURL = existing.LogoURL
	c.ImageURL = existing.ImageURL
	if logoObj != nil {
		c.LogoURL = logoObj.URL
	}
	if imageObj != nil {
		c.ImageURL = imageObj.URL
	}

	if err := s.clients.Update(ctx, &c); err != nil {
		s.discard(ctx, logoObj, imageObj)
		s.failed(domain.KindClients, activity.ActionUpdate)
		return nil, err
	}

	if logoObj != nil {
		s.media.DeleteByURL(ctx, existing.LogoURL)
	}
	if imageObj != nil {
		s.media.DeleteByURL(ctx, existing.ImageURL)
	}
	s.changed(ctx, domain.KindClients, activity.ActionUpdate, id, c.CompanyName)
	return &c, nil
}

func (s *ContentService) DeleteClient(ctx context.Context, id string) error {
	existing, err := s.clients.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		s.failed(domain.KindClients, activity.ActionDelete)
		return err
	}

	s.media.DeleteByURL(ctx, existing.LogoURL)
	s.media.DeleteByURL(ctx, existing.ImageURL)
	s.changed(ctx, domain.KindClients, activity.ActionDelete, id, existing.CompanyName)
	return nil
}

// EnsureClients is the public read path: an empty collection is filled
// with the sample clients first.
func (s *ContentService) EnsureClients(ctx context.Context) ([]domain.Client, error) {
	empty, err := s.clients.Empty(ctx)
	if err != nil {
		return nil, err
	}
	if empty {
		defaults, err := defaultClients()
		if err != nil {
			return nil, err
		}
		if err := s.clients.SeedMany(ctx, defaults); err != nil {
			return nil, err
		}
		logging.Op(ctx, "content.clients").Info("no client data found, uploaded sample data",
			zap.Int("clients", len(defaults)))
		s.changed(ctx, domain.KindClients, activity.ActionSeed, "clients", "sample clients")
	}
	return s.ListClients(ctx)
}

func clientFromForm(id string, f domain.ClientForm) domain.Client {
	return domain.Client{
		ID:          id,
		CompanyName: f.CompanyName,
		Industry:    f.Industry,
		Product:     f.Product,
		ScopeOfWork: f.ScopeOfWork,
		Description: f.Description,
		Feedback:    f.Feedback,
	}
}
