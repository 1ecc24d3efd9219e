package service

import (
	"context"
	"strings"

	"github.com/bytedocker/site/internal/activity"
	"github.com/bytedocker/site/internal/content/domain"
	"github.com/bytedocker/site/internal/media"
)

func (s *ContentService) ListLogos(ctx context.Context) ([]domain.Logo, error) {
	return s.logos.List(ctx)
}

// AddLogo registers a tech-stack logo, either by URL or by uploading file.
func (s *ContentService) AddLogo(ctx context.Context, form domain.LogoForm, file *media.File) (*domain.Logo, error) {
	if err := form.Validate(file != nil); err != nil {
		return nil, err
	}

	l := domain.Logo{
		Title:     strings.TrimSpace(form.Title),
		URL:       strings.TrimSpace(form.URL),
		Type:      domain.LogoTypeURL,
		CreatedAt: s.now().UnixMilli(),
	}

	var obj *media.Object
	if file != nil {
		o, err := s.media.UploadTimestamped(ctx, logosPrefix, "", *file)
		if err != nil {
			s.failed(domain.KindLogos, activity.ActionCreate)
			return nil, err
		}
		obj = &o
		l.Type = domain.LogoTypeStorage
		l.URL = o.URL
		l.StoragePath = o.Path
	}

	if err := s.logos.Create(ctx, &l); err != nil {
		s.discard(ctx, obj)
		s.failed(domain.KindLogos, activity.ActionCreate)
		return nil, err
	}

	s.changed(ctx, domain.KindLogos, activity.ActionCreate, l.ID, l.Title)
	return &l, nil
}

// DeleteLogo removes a logo. Uploaded logos lose their object first; a
// failure there does not stop the document delete.
func (s *ContentService) DeleteLogo(ctx context.Context, id string) error {
	l, err := s.logos.Get(ctx, id)
	if err != nil {
		return err
	}
	if l.Type == domain.LogoTypeStorage && l.StoragePath != "" {
		s.media.DeletePath(ctx, l.StoragePath)
	}
	if err := s.logos.Delete(ctx, id); err != nil {
		s.failed(domain.KindLogos, activity.ActionDelete)
		return err
	}

	// Detail pages render logos, so they go stale too.
	s.changed(ctx, domain.KindLogos, activity.ActionDelete, id, l.Title, domain.KindServiceDetails)
	return nil
}
