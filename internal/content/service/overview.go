package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bytedocker/site/internal/activity"
)

// InquiryCounter reports unhandled contact inquiries. It is optional.
type InquiryCounter interface {
	CountOpen(ctx context.Context) (int, error)
}

type Overview struct {
	Services       int              `json:"services"`
	Clients        int              `json:"clients"`
	Projects       int              `json:"projects"`
	OpenInquiries  int              `json:"openInquiries"`
	RecentActivity []activity.Entry `json:"recentActivity"`
}

// Overview gathers the dashboard counters concurrently.
func (s *ContentService) Overview(ctx context.Context, inquiries InquiryCounter, recent int) (*Overview, error) {
	var ov Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cards, err := s.ListServices(gctx)
		ov.Services = len(cards)
		return err
	})
	g.Go(func() error {
		clients, err := s.clients.List(gctx)
		ov.Clients = len(clients)
		return err
	})
	g.Go(func() error {
		projects, err := s.projects.List(gctx)
		ov.Projects = len(projects)
		return err
	})
	if inquiries != nil {
		g.Go(func() error {
			n, err := inquiries.CountOpen(gctx)
			ov.OpenInquiries = n
			return err
		})
	}
	g.Go(func() error {
		entries, err := s.activity.Recent(gctx, recent)
		ov.RecentActivity = entries
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}
