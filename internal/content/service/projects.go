package service

import (
	"context"
	"sort"

	"github.com/bytedocker/site/internal/activity"
	"github.com/bytedocker/site/internal/content/domain"
	"github.com/bytedocker/site/internal/media"
)

// ListProjects returns projects newest year first.
func (s *ContentService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Year != projects[j].Year {
			return projects[i].Year > projects[j].Year
		}
		return projects[i].ClientName < projects[j].ClientName
	})
	return projects, nil
}

func (s *ContentService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.Get(ctx, id)
}

func (s *ContentService) CreateProject(ctx context.Context, form domain.ProjectForm, image *media.File) (*domain.Project, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, domain.ErrImageRequired
	}

	obj, err := s.media.Upload(ctx, projectsPrefix, *image)
	if err != nil {
		s.failed(domain.KindProjects, activity.ActionCreate)
		return nil, err
	}

	p := projectFromForm(s.newID(), form)
	p.ImageURL = obj.URL
	if err := s.projects.Create(ctx, &p); err != nil {
		s.discard(ctx, &obj)
		s.failed(domain.KindProjects, activity.ActionCreate)
		return nil, err
	}

	s.changed(ctx, domain.KindProjects, activity.ActionCreate, p.ID, p.ClientName)
	return &p, nil
}

func (s *ContentService) UpdateProject(ctx context.Context, id string, form domain.ProjectForm, image *media.File) (*domain.Project, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	obj, err := s.uploadOptional(ctx, projectsPrefix, image)
	if err != nil {
		s.failed(domain.KindProjects, activity.ActionUpdate)
		return nil, err
	}

	p := projectFromForm(id, form)
	p.ImageURL = existing.ImageURL
	if obj != nil {
		p.ImageURL = obj.URL
	}
	if err := s.projects.Update(ctx, &p); err != nil {
		s.discard(ctx, obj)
		s.failed(domain.KindProjects, activity.ActionUpdate)
		return nil, err
	}

	if obj != nil {
		s.media.DeleteByURL(ctx, existing.ImageURL)
	}
	s.changed(ctx, domain.KindProjects, activity.ActionUpdate, id, p.ClientName)
	return &p, nil
}

func (s *ContentService) DeleteProject(ctx context.Context, id string) error {
	existing, err := s.projects.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		s.failed(domain.KindProjects, activity.ActionDelete)
		return err
	}

	s.media.DeleteByURL(ctx, existing.ImageURL)
	s.changed(ctx, domain.KindProjects, activity.ActionDelete, id, existing.ClientName)
	return nil
}

func projectFromForm(id string, f domain.ProjectForm) domain.Project {
	return domain.Project{
		ID:          id,
		ClientName:  f.ClientName,
		ProjectType: f.ProjectType,
		Year:        f.Year,
		Description: f.Description,
	}
}
