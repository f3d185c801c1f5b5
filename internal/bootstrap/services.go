package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/neurozen/neurozen/config"
	redisadapter "github.com/neurozen/neurozen/internal/adapters/redis"
	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/ports"
	"github.com/neurozen/neurozen/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Tasks      *service.TaskService
	Categories *service.CategoryService
	Notes      *service.NoteService
	Moods      *service.MoodService
	Pomodoro   *service.PomodoroService
	Quotes     *service.QuoteService
	QuoteFeed  *service.QuoteFeedService
	Exercises  *service.ExerciseService
	Auth       *service.AuthService
	Flashes    ports.FlashStore
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB           *sql.DB
	Redis        redis.UniversalClient
	UserRepo     *data.UserRepo
	CategoryRepo *data.CategoryRepo
	TaskRepo     *data.TaskRepo
	NoteRepo     *data.NoteRepo
	MoodRepo     *data.MoodRepo
	PomodoroRepo *data.PomodoroRepo
	QuoteRepo    *data.QuoteRepo
	ExerciseRepo *data.ExerciseRepo
	CacheRepo    *data.RedisCacheRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		DB:           db,
		Redis:        redisClient,
		UserRepo:     data.NewUserRepo(db),
		CategoryRepo: data.NewCategoryRepo(db),
		TaskRepo:     data.NewTaskRepo(db),
		NoteRepo:     data.NewNoteRepo(db),
		MoodRepo:     data.NewMoodRepo(db),
		PomodoroRepo: data.NewPomodoroRepo(db),
		QuoteRepo:    data.NewQuoteRepo(db),
		ExerciseRepo: data.NewExerciseRepo(db),
	}
	if redisClient != nil {
		repos.CacheRepo = data.NewRedisCacheRepo(redisClient)
	}
	return repos
}

// buildDomainServices wires business services using repositories.
func buildDomainServices(deps *ServiceDeps, repos *serviceRepositories) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	quoteOpts := service.QuoteServiceOptions{
		Quotes: repos.QuoteRepo,
		Deps:   service.QuoteServiceDeps{Logger: logger},
	}
	if repos.CacheRepo != nil {
		quoteOpts.Cache = repos.CacheRepo
	}
	quotes := service.NewQuoteService(quoteOpts)

	container := ServiceContainer{
		Tasks: service.NewTaskService(service.TaskServiceOptions{
			Tasks:      repos.TaskRepo,
			Categories: repos.CategoryRepo,
		}),
		Categories: service.NewCategoryService(service.CategoryServiceOptions{
			Categories: repos.CategoryRepo,
		}),
		Notes: service.NewNoteService(service.NoteServiceOptions{
			Notes: repos.NoteRepo,
		}),
		Moods: service.NewMoodService(service.MoodServiceOptions{
			Moods: repos.MoodRepo,
		}),
		Pomodoro: service.NewPomodoroService(service.PomodoroServiceOptions{
			Sessions: repos.PomodoroRepo,
			Tasks:    repos.TaskRepo,
		}),
		Quotes: quotes,
		Exercises: service.NewExerciseService(service.ExerciseServiceOptions{
			Exercises: repos.ExerciseRepo,
		}),
		Auth: BuildAuthService(AuthConfig{
			Auth:        appCfg.Auth,
			DB:          repos.DB,
			RedisClient: repos.Redis,
			Logger:      logger,
		}),
		QuoteFeed: BuildQuoteFeedService(appCfg.QuoteFeed, quotes, logger),
	}

	if repos.Redis != nil {
		container.Flashes = redisadapter.NewFlashStore(repos.Redis)
	}

	return container
}

// NewServices wires repositories and services from shared infrastructure.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil {
		return ServiceContainer{}
	}
	repos := buildRepositories(deps.DB, deps.RedisClient)
	return buildDomainServices(deps, repos)
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their
// lifecycle. It blocks until a shutdown signal is received or a service
// fails, then stops the remaining services gracefully.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		server := BuildHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})

		g.Go(func() error {
			logger.Info("starting HTTP server", "addr", server.Addr)
			if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", serveErr)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return ShutdownHTTPServer(context.Background(), server, logger)
		})
	}

	if enabled[config.ServiceModeQuoteFeed] {
		if cfg.Services.QuoteFeed == nil {
			logger.Warn("quote feed service enabled but not configured; skipping")
		} else {
			g.Go(func() error {
				logger.Info("starting quote feed importer", "interval", cfg.Config.QuoteFeed.RefreshInterval)
				return RunQuoteFeed(gctx, QuoteFeedRunnerConfig{
					Service:  cfg.Services.QuoteFeed,
					Interval: cfg.Config.QuoteFeed.RefreshInterval,
					Logger:   logger,
				})
			})
		}
	}

	if waitErr := g.Wait(); waitErr != nil {
		logger.Error("service error", "error", waitErr)
		return waitErr
	}

	logger.Info("all services stopped")
	return nil
}
