package service

import (
	"context"
	"fmt"
	"path"
	"sort"

	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/activity"
	"github.com/bytedocker/site/internal/content/domain"
	"github.com/bytedocker/site/internal/content/repository"
	"github.com/bytedocker/site/internal/logging"
	"github.com/bytedocker/site/internal/media"
)

type SyncResult struct {
	Created   int `json:"created"`
	Refreshed int `json:"refreshed"`
	Removed   int `json:"removed"`
}

// planSync diffs cards against stored details.
func planSync(cards []domain.Service, details []domain.ServiceDetail, now int64) repository.DetailSyncPlan {
	plan := repository.DetailSyncPlan{Now: now}

	existing := make(map[string]domain.ServiceDetail, len(details))
	for _, d := range details {
		existing[d.ID] = d
	}
	live := make(map[string]struct{}, len(cards))

	for _, c := range cards {
		if c.ID == "" {
			continue
		}
		live[c.ID] = struct{}{}
		d, ok := existing[c.ID]
		switch {
		case !ok:
			plan.Create = append(plan.Create, domain.ServiceDetail{
				ID:        c.ID,
				Title:     c.Title,
				Images:    []string{},
				TechStack: []string{},
				UpdatedAt: now,
			})
		case d.Title != c.Title:
			plan.Refresh = append(plan.Refresh, c)
		}
	}

	for _, d := range details {
		if _, ok := live[d.ID]; !ok {
			plan.Remove = append(plan.Remove, d.ID)
		}
	}
	sort.Strings(plan.Remove)
	return plan
}

// SyncServiceDetails gives every service card a detail document, keeps
// titles current and removes details whose card is gone, in one atomic
// write.
func (s *ContentService) SyncServiceDetails(ctx context.Context) (SyncResult, error) {
	cards, err := s.services.Cards(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	details, err := s.details.List(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	plan := planSync(cards, details, s.now().UnixMilli())
	res := SyncResult{Created: len(plan.Create), Refreshed: len(plan.Refresh), Removed: len(plan.Remove)}
	if !plan.Changed() {
		return res, nil
	}

	if err := s.details.ApplySync(ctx, plan); err != nil {
		s.failed(domain.KindServiceDetails, activity.ActionSync)
		return SyncResult{}, err
	}

	logging.Op(ctx, "content.sync_details").Info("service details synced",
		zap.Int("created", res.Created), zap.Int("refreshed", res.Refreshed), zap.Int("removed", res.Removed))
	s.changed(ctx, domain.KindServiceDetails, activity.ActionSync, "serviceDetails",
		fmt.Sprintf("created %d, refreshed %d, removed %d", res.Created, res.Refreshed, res.Removed))
	return res, nil
}

func (s *ContentService) ListServiceDetails(ctx context.Context) ([]domain.ServiceDetail, error) {
	return s.details.List(ctx)
}

func (s *ContentService) GetServiceDetail(ctx context.Context, id string) (*domain.ServiceDetail, error) {
	return s.details.Get(ctx, id)
}

// SaveServiceDetail stores an admin edit of a detail page. A thumbnail must
// exist afterwards, either the stored one or thumbnail. When form.KeepImages
// is set, stored images not listed in it are dropped and deleted.
func (s *ContentService) SaveServiceDetail(ctx context.Context, id string, form domain.ServiceDetailForm, thumbnail *media.File, files []media.File) (*domain.ServiceDetail, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.details.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if thumbnail == nil && existing.Src == "" {
		return nil, &domain.ValidationError{Message: "Thumbnail is required."}
	}

	keep := make(map[string]bool, len(form.KeepImages))
	for _, u := range form.KeepImages {
		keep[u] = true
	}
	images := make([]string, 0, len(existing.Images)+len(files))
	var dropped []string
	for _, u := range existing.Images {
		if form.KeepImages == nil || keep[u] {
			images = append(images, u)
		} else {
			dropped = append(dropped, u)
		}
	}

	var uploaded []*media.Object
	fail := func(err error) (*domain.ServiceDetail, error) {
		s.discard(ctx, uploaded...)
		s.failed(domain.KindServiceDetails, activity.ActionUpdate)
		return nil, err
	}

	src := existing.Src
	if thumbnail != nil {
		obj, err := s.media.UploadTimestamped(ctx, path.Join(servicesPrefix, id), "thumbnail_", *thumbnail)
		if err != nil {
			return fail(err)
		}
		uploaded = append(uploaded, &obj)
		src = obj.URL
	}
	for _, f := range files {
		obj, err := s.media.UploadTimestamped(ctx, path.Join(servicesPrefix, id, "images"), "", f)
		if err != nil {
			return fail(err)
		}
		uploaded = append(uploaded, &obj)
		images = append(images, obj.URL)
	}

	d := domain.ServiceDetail{
		ID:          id,
		Title:       existing.Title,
		Src:         src,
		Images:      images,
		TechStack:   dedupe(form.TechStack),
		Description: form.Description,
		UpdatedAt:   s.now().UnixMilli(),
	}
	if err := s.details.Update(ctx, &d); err != nil {
		return fail(err)
	}

	if thumbnail != nil && existing.Src != "" {
		s.media.DeleteByURL(ctx, existing.Src)
	}
	for _, u := range dropped {
		s.media.DeleteByURL(ctx, u)
	}
	s.changed(ctx, domain.KindServiceDetails, activity.ActionUpdate, id, d.Title)
	return &d, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
