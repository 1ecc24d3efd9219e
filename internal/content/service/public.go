package service

import (
	"context"
	"errors"

	"github.com/bytedocker/site/internal/cache"
	"github.com/bytedocker/site/internal/content/domain"
)

const allKey = "all"

// ServicePage is everything the public detail page of one service needs.
type ServicePage struct {
	Service domain.Service        `json:"service"`
	Detail  *domain.ServiceDetail `json:"detail,omitempty"`
	Logos   []domain.Logo         `json:"logos"`
}

func (s *ContentService) PublicServices(ctx context.Context) ([]domain.Service, error) {
	return cache.Load(ctx, s.cache, domain.KindServices, allKey, s.EnsureServices)
}

func (s *ContentService) PublicClients(ctx context.Context) ([]domain.Client, error) {
	return cache.Load(ctx, s.cache, domain.KindClients, allKey, s.EnsureClients)
}

func (s *ContentService) PublicProjects(ctx context.Context) ([]domain.Project, error) {
	return cache.Load(ctx, s.cache, domain.KindProjects, allKey, s.ListProjects)
}

func (s *ContentService) PublicLogos(ctx context.Context) ([]domain.Logo, error) {
	return cache.Load(ctx, s.cache, domain.KindLogos, allKey, s.ListLogos)
}

// PublicServicePage resolves a card, its detail document (which may not be
// synced yet) and the logos of its tech stack.
func (s *ContentService) PublicServicePage(ctx context.Context, id string) (*ServicePage, error) {
	return cache.Load(ctx, s.cache, domain.KindServiceDetails, id, func(ctx context.Context) (*ServicePage, error) {
		return s.servicePage(ctx, id)
	})
}

func (s *ContentService) servicePage(ctx context.Context, id string) (*ServicePage, error) {
	cards, err := s.PublicServices(ctx)
	if err != nil {
		return nil, err
	}
	page := &ServicePage{Logos: []domain.Logo{}}
	found := false
	for _, c := range cards {
		if c.ID == id {
			page.Service = c
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrServiceNotFound
	}

	detail, err := s.details.Get(ctx, id)
	switch {
	case errors.Is(err, domain.ErrServiceDetailNotFound):
		return page, nil
	case err != nil:
		return nil, err
	}
	page.Detail = detail

	if len(detail.TechStack) == 0 {
		return page, nil
	}
	logos, err := s.PublicLogos(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Logo, len(logos))
	for _, l := range logos {
		byID[l.ID] = l
	}
	for _, lid := range detail.TechStack {
		if l, ok := byID[lid]; ok {
			page.Logos = append(page.Logos, l)
		}
	}
	return page, nil
}
