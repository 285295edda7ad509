package bootstrap

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"jobboard/app/internal/config"
	dataaccounts "jobboard/app/internal/data/accounts"
	"jobboard/app/internal/data/database"
	datajobs "jobboard/app/internal/data/jobs"
	"jobboard/app/internal/data/migrations"
	dataposts "jobboard/app/internal/data/posts"
	"jobboard/app/internal/domain/accounts"
	"jobboard/app/internal/domain/jobs"
	"jobboard/app/internal/domain/llm"
	"jobboard/app/internal/domain/posts"
	"jobboard/app/internal/domain/slug"
	"jobboard/app/internal/infrastructure/llm/openai"
	"jobboard/app/internal/infrastructure/storage"
	applog "jobboard/app/internal/platform/log"
	presentationhttp "jobboard/app/internal/presentation/http"
)

const slugFallback = "post"

type Dependencies struct {
	Config    *config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
}

type Result struct {
	Jobs       jobs.Service
	Posts      posts.Service
	Accounts   accounts.Service
	HTTPServer *presentationhttp.Server
	Database   *gorm.DB
	Cleanup    func() error
}

// Build composes the job board layers and returns the constructed components.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	if deps.Config == nil {
		return Result{}, eris.New("config is required")
	}
	cfg := deps.Config

	db, err := OpenDatabase(ctx, cfg, deps.Logger)
	if err != nil {
		return Result{}, err
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := database.Close(db); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Result{}, wrapper
	}

	accountService, err := newAccountService(db, cfg, deps)
	if err != nil {
		return closeOnError(err)
	}

	postRepo, err := dataposts.NewRepository(db, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating posts repository"))
	}

	assigner, err := slug.NewAssigner(slug.AssignerOptions{
		Checker:     postRepo,
		MaxAttempts: cfg.SlugAttempts,
		Fallback:    slugFallback,
		Reserved:    []string{"new"},
		Logger:      deps.Logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating slug assigner"))
	}

	postService, err := posts.NewService(postRepo, assigner, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating posts service"))
	}

	jobRepo, err := datajobs.NewRepository(db, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating jobs repository"))
	}

	resumes, err := storage.New(ctx, storage.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		S3: storage.S3Config{
			Endpoint:       cfg.Storage.S3.Endpoint,
			Region:         cfg.Storage.S3.Region,
			Bucket:         cfg.Storage.S3.Bucket,
			AccessKey:      cfg.Storage.S3.AccessKey,
			SecretKey:      cfg.Storage.S3.SecretKey,
			ForcePathStyle: cfg.Storage.S3.ForcePathStyle,
		},
		Logger: deps.Logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising resume storage"))
	}

	suggester, err := newSuggester(cfg, deps.Logger)
	if err != nil {
		return closeOnError(err)
	}

	jobService, err := jobs.NewService(jobs.ServiceOptions{
		Repository:     jobRepo,
		Resumes:        resumes,
		Suggester:      suggester,
		Logger:         deps.Logger,
		SentryHub:      deps.SentryHub,
		MaxResumeBytes: cfg.Storage.MaxResumeBytes,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating jobs service"))
	}

	httpServer, err := presentationhttp.NewServer(presentationhttp.Options{
		Jobs:             jobService,
		Posts:            postService,
		Accounts:         accountService,
		Database:         db,
		SuggesterEnabled: suggester != nil,
		MaxResumeBytes:   cfg.Storage.MaxResumeBytes,
		CookieSecure:     cfg.Session.CookieSecure,
		Logger:           deps.Logger,
		SentryHub:        deps.SentryHub,
		RateLimiter: presentationhttp.RateLimiterSettings{
			Burst:             cfg.RateLimit.Burst,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			ClientTTL:         cfg.RateLimit.ClientTTL,
		},
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}

	cleanup := func() error {
		httpServer.Close()
		return database.Close(db)
	}

	return Result{
		Jobs:       jobService,
		Posts:      postService,
		Accounts:   accountService,
		HTTPServer: httpServer,
		Database:   db,
		Cleanup:    cleanup,
	}, nil
}

// OpenDatabase connects to the configured database and applies migrations.
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*gorm.DB, error) {
	db, err := database.Open(database.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		DSN:    cfg.DatabaseURL,
		Logger: applog.GormLogger(logger),
	})
	if err != nil {
		return nil, eris.Wrap(err, "opening database")
	}

	if err := migrations.Migrate(ctx, db, logger); err != nil {
		if closeErr := database.Close(db); closeErr != nil && logger != nil {
			logger.WithError(closeErr).Error("closing database after migration failure")
		}
		return nil, eris.Wrap(err, "running migrations")
	}

	return db, nil
}

// NewAccountService builds the accounts service on top of an open database.
func NewAccountService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger, hub *sentry.Hub) (accounts.Service, error) {
	return newAccountService(db, cfg, Dependencies{Config: cfg, Logger: logger, SentryHub: hub})
}

func newAccountService(db *gorm.DB, cfg *config.Config, deps Dependencies) (accounts.Service, error) {
	repo, err := dataaccounts.NewRepository(db, deps.Logger)
	if err != nil {
		return nil, eris.Wrap(err, "creating accounts repository")
	}

	service, err := accounts.NewService(accounts.ServiceOptions{
		Repository: repo,
		Logger:     deps.Logger,
		SentryHub:  deps.SentryHub,
		SessionTTL: cfg.Session.TTL,
	})
	if err != nil {
		return nil, eris.Wrap(err, "creating accounts service")
	}
	return service, nil
}

// newSuggester returns nil when no LLM credentials are configured.
func newSuggester(cfg *config.Config, logger *logrus.Logger) (llm.Suggester, error) {
	if !cfg.SuggesterEnabled() {
		if logger != nil {
			logger.Info("LLM_API_KEY not set, related searches disabled")
		}
		return nil, nil
	}

	client, err := openai.NewClient(openai.ClientOptions{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMEndpoint,
		Logger:  logger,
	})
	if err != nil {
		return nil, eris.Wrap(err, "creating llm client")
	}

	suggester, err := openai.NewSuggester(openai.SuggesterOptions{
		Client: client,
		Models: cfg.LLMModels,
	})
	if err != nil {
		return nil, eris.Wrap(err, "initialising llm suggester")
	}
	return suggester, nil
}
