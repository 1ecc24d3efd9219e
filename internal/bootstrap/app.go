package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bytedocker/site/config"
	"github.com/bytedocker/site/internal/activity"
	fbauth "github.com/bytedocker/site/internal/auth"
	authrepo "github.com/bytedocker/site/internal/auth/repository"
	authsvc "github.com/bytedocker/site/internal/auth/service"
	"github.com/bytedocker/site/internal/cache"
	"github.com/bytedocker/site/internal/content/repository"
	contentsvc "github.com/bytedocker/site/internal/content/service"
	"github.com/bytedocker/site/internal/db"
	inqrepo "github.com/bytedocker/site/internal/inquiries/repository"
	inqsvc "github.com/bytedocker/site/internal/inquiries/service"
	"github.com/bytedocker/site/internal/media"
	"github.com/bytedocker/site/internal/storage/postgres"
)

// App holds every long-lived client and service of one process. Optional
// backends (Postgres, Redis) are nil when not configured.
type App struct {
	Config *config.Config
	Log    *zap.Logger

	Firestore *firestore.Client
	SQL       *sql.DB
	Pool      *db.DB
	Redis     *redis.Client

	Cache     *cache.ContentCache
	Activity  *activity.Recorder
	Content   *contentsvc.ContentService
	Auth      *authsvc.AuthService
	Inquiries *inqsvc.InquiryService

	closers []func() error
}

// Options toggles startup work that only the API server performs.
type Options struct {
	Migrate bool
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opt Options) (app *App, err error) {
	app = &App{Config: cfg, Log: log}
	built := app
	defer func() {
		if err != nil {
			_ = built.Close()
		}
	}()

	fbApp, err := fbauth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		return nil, err
	}
	app.Firestore, err = fbApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	app.onClose(app.Firestore.Close)

	authClient, err := fbApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth client: %w", err)
	}
	app.Auth = authsvc.NewAuthService(authClient, authrepo.NewUserRepository(app.Firestore))

	store, err := newMediaStore(ctx, cfg, fbApp)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Enabled() {
		if err := app.openDatabase(ctx, opt.Migrate); err != nil {
			return nil, err
		}
	} else {
		log.Warn("DB_HOST/DB_DSN not set; inquiries and activity log are disabled")
	}

	if cfg.Redis.URL != "" {
		app.Redis, err = cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		app.onClose(app.Redis.Close)
	} else {
		log.Info("REDIS_URL not set; public content cache disabled")
	}
	app.Cache = cache.New(app.Redis, cfg.Redis.CacheTTL)

	if app.Pool != nil {
		app.Activity = activity.NewRecorder(activity.NewRepo(app.Pool.Pool))
	}
	if app.SQL != nil {
		app.Inquiries = inqsvc.NewInquiryService(inqrepo.NewInquiryRepository(app.SQL), app.Activity)
	}

	app.Content = contentsvc.New(contentsvc.Deps{
		Services: repository.NewServiceRepository(app.Firestore),
		Clients:  repository.NewClientRepository(app.Firestore),
		Projects: repository.NewProjectRepository(app.Firestore),
		Details:  repository.NewServiceDetailRepository(app.Firestore),
		Logos:    repository.NewLogoRepository(app.Firestore),
		Media:    media.NewService(store, cfg.Storage.MaxUploadBytes),
		Cache:    app.Cache,
		Activity: app.Activity,
	})

	return app, nil
}

func (a *App) openDatabase(ctx context.Context, migrate bool) error {
	sqlDB, err := postgres.NewConnection(&a.Config.Database)
	if err != nil {
		return err
	}
	a.SQL = sqlDB
	a.onClose(sqlDB.Close)

	if migrate {
		version, err := postgres.Migrate(sqlDB)
		if err != nil {
			return err
		}
		a.Log.Info("database migrated", zap.Uint("version", version))
	}

	a.Pool, err = db.Open(ctx, &a.Config.Database)
	if err != nil {
		return err
	}
	a.onClose(func() error { a.Pool.Close(); return nil })
	return nil
}

func newMediaStore(ctx context.Context, cfg *config.Config, fbApp *firebase.App) (media.Store, error) {
	switch cfg.Storage.Driver {
	case "s3":
		client, err := media.NewS3Client(ctx, cfg.Storage.S3Region)
		if err != nil {
			return nil, err
		}
		return media.NewS3Store(client, cfg.Storage.S3Bucket, cfg.Storage.S3Region, cfg.Storage.S3PublicBaseURL), nil
	default:
		st, err := fbApp.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage client: %w", err)
		}
		bucket, err := st.Bucket(cfg.Firebase.StorageBucket)
		if err != nil {
			return nil, fmt.Errorf("storage bucket: %w", err)
		}
		return media.NewFirebaseStore(bucket, cfg.Firebase.StorageBucket), nil
	}
}

// InquiryCounter returns the overview counter, or an untyped nil when the
// database is disabled.
func (a *App) InquiryCounter() contentsvc.InquiryCounter {
	if a.Inquiries == nil {
		return nil
	}
	return a.Inquiries
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases clients in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
