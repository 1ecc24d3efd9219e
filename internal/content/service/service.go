package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/activity"
	"github.com/bytedocker/site/internal/cache"
	"github.com/bytedocker/site/internal/content/domain"
	"github.com/bytedocker/site/internal/content/repository"
	"github.com/bytedocker/site/internal/logging"
	"github.com/bytedocker/site/internal/media"
	"github.com/bytedocker/site/internal/metrics"
)

// Storage prefixes for uploaded images.
const (
	servicesPrefix     = "services"
	clientLogosPrefix  = "client-logos"
	clientImagesPrefix = "client-images"
	projectsPrefix     = "projects"
	logosPrefix        = "logos"
)

type ServiceCards interface {
	Cards(ctx context.Context) ([]domain.Service, error)
	Append(ctx context.Context, card domain.Service) error
	Mutate(ctx context.Context, fn func([]domain.Service) ([]domain.Service, error)) error
	Seed(ctx context.Context, cards []domain.Service) (bool, error)
}

type ClientStore interface {
	List(ctx context.Context) ([]domain.Client, error)
	Get(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, c *domain.Client) error
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
	Empty(ctx context.Context) (bool, error)
	SeedMany(ctx context.Context, clients []domain.Client) error
}

type ProjectStore interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type DetailStore interface {
	List(ctx context.Context) ([]domain.ServiceDetail, error)
	Get(ctx context.Context, id string) (*domain.ServiceDetail, error)
	Update(ctx context.Context, d *domain.ServiceDetail) error
	ApplySync(ctx context.Context, plan repository.DetailSyncPlan) error
}

type LogoStore interface {
	List(ctx context.Context) ([]domain.Logo, error)
	Get(ctx context.Context, id string) (*domain.Logo, error)
	Create(ctx context.Context, l *domain.Logo) error
	Delete(ctx context.Context, id string) error
}

// Media is the slice of media.Service the content flows need.
type Media interface {
	Upload(ctx context.Context, prefix string, f media.File) (media.Object, error)
	UploadTimestamped(ctx context.Context, prefix, stem string, f media.File) (media.Object, error)
	DeleteByURL(ctx context.Context, rawURL string)
	DeletePath(ctx context.Context, objectPath string)
}

// Deps wires a ContentService. Cache and Activity may be nil.
type Deps struct {
	Services ServiceCards
	Clients  ClientStore
	Projects ProjectStore
	Details  DetailStore
	Logos    LogoStore
	Media    Media
	Cache    *cache.ContentCache
	Activity *activity.Recorder
}

// ContentService owns every admin and public content flow: validation,
// image lifecycle, cache invalidation and the audit trail.
type ContentService struct {
	services ServiceCards
	clients  ClientStore
	projects ProjectStore
	details  DetailStore
	logos    LogoStore
	media    Media
	cache    *cache.ContentCache
	activity *activity.Recorder

	now   func() time.Time
	newID func() string
}

func New(d Deps) *ContentService {
	return &ContentService{
		services: d.Services,
		clients:  d.Clients,
		projects: d.Projects,
		details:  d.Details,
		logos:    d.Logos,
		media:    d.Media,
		cache:    d.Cache,
		activity: d.Activity,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// changed runs after every successful mutation.
func (s *ContentService) changed(ctx context.Context, kind domain.Kind, action, id, summary string, alsoStale ...domain.Kind) {
	metrics.RecordMutation(string(kind), action, true)
	kinds := append([]domain.Kind{kind}, alsoStale...)
	if err := s.cache.Invalidate(ctx, kinds...); err != nil {
		logging.Op(ctx, "content.invalidate").Warn("cache invalidation failed",
			zap.String("kind", string(kind)), zap.Error(err))
	}
	s.activity.Record(ctx, action, string(kind), id, summary)
}

func (s *ContentService) failed(kind domain.Kind, action string) {
	metrics.RecordMutation(string(kind), action, false)
}

// discard removes freshly uploaded objects after a failed write.
func (s *ContentService) discard(ctx context.Context, objs ...*media.Object) {
	for _, o := range objs {
		if o != nil {
			s.media.DeletePath(ctx, o.Path)
		}
	}
}

// uploadOptional uploads f when present.
func (s *ContentService) uploadOptional(ctx context.Context, prefix string, f *media.File) (*media.Object, error) {
	if f == nil {
		return nil, nil
	}
	obj, err := s.media.Upload(ctx, prefix, *f)
	if err != nil {
		return nil, err
	}
	return &obj, nil
}
