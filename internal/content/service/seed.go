package service

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bytedocker/site/internal/activity"
	"github.com/bytedocker/site/internal/content/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type seedFeedback struct {
	Message string `yaml:"message"`
	Rating  int    `yaml:"rating"`
}

type seedClient struct {
	CompanyName string       `yaml:"companyName"`
	Industry    string       `yaml:"industry"`
	Product     string       `yaml:"product"`
	ScopeOfWork string       `yaml:"scopeOfWork"`
	Description string       `yaml:"description"`
	Feedback    seedFeedback `yaml:"feedback"`
	LogoURL     string       `yaml:"logoUrl"`
	ImageURL    string       `yaml:"imageUrl"`
}

type seedFile struct {
	Services []struct {
		ID          string `yaml:"id"`
		Src         string `yaml:"src"`
		Alt         string `yaml:"alt"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"services"`
	Clients []seedClient `yaml:"clients"`
}

func loadDefaults() (*seedFile, error) {
	var f seedFile
	if err := yaml.Unmarshal(defaultsYAML, &f); err != nil {
		return nil, fmt.Errorf("decode default content: %w", err)
	}
	return &f, nil
}

func defaultServices() ([]domain.Service, error) {
	f, err := loadDefaults()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Service, 0, len(f.Services))
	for _, s := range f.Services {
		card := domain.Service{ID: s.ID, Title: s.Title, Alt: s.Alt, Description: s.Description, Src: s.Src}
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("default service %q: %w", s.ID, err)
		}
		out = append(out, card)
	}
	return out, nil
}

func defaultClients() ([]domain.Client, error) {
	f, err := loadDefaults()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Client, 0, len(f.Clients))
	for _, c := range f.Clients {
		form := domain.ClientForm{
			CompanyName: c.CompanyName,
			Industry:    c.Industry,
			Product:     c.Product,
			ScopeOfWork: c.ScopeOfWork,
			Description: c.Description,
			Feedback:    domain.Feedback{Message: c.Feedback.Message, Rating: c.Feedback.Rating},
		}
		if err := form.Validate(); err != nil {
			return nil, fmt.Errorf("default client %q: %w", c.CompanyName, err)
		}
		client := clientFromForm(domain.ClientID(c.CompanyName), form)
		client.LogoURL = c.LogoURL
		client.ImageURL = c.ImageURL
		out = append(out, client)
	}
	return out, nil
}

type SeedResult struct {
	Services bool `json:"services"`
	Clients  bool `json:"clients"`
}

// SeedDefaults writes the default cards and sample clients where none exist
// yet. It is safe to run repeatedly.
func (s *ContentService) SeedDefaults(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	cards, err := defaultServices()
	if err != nil {
		return res, err
	}
	if res.Services, err = s.services.Seed(ctx, cards); err != nil {
		return res, err
	}

	empty, err := s.clients.Empty(ctx)
	if err != nil {
		return res, err
	}
	if empty {
		clients, err := defaultClients()
		if err != nil {
			return res, err
		}
		if err := s.clients.SeedMany(ctx, clients); err != nil {
			return res, err
		}
		res.Clients = true
	}

	if res.Services {
		s.changed(ctx, domain.KindServices, activity.ActionSeed, "content/services", "default cards")
	}
	if res.Clients {
		s.changed(ctx, domain.KindClients, activity.ActionSeed, "clients", "sample clients")
	}
	return res, nil
}
