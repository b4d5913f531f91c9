package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/applications"
	"resume-screener/internal/candidates"
	"resume-screener/internal/jobdesc"
	"resume-screener/internal/jobs"
	"resume-screener/internal/queue"
	"resume-screener/internal/resumes"
	"resume-screener/internal/screening"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server"
	"resume-screener/internal/shared/storage/db"
	"resume-screener/internal/shared/storage/object"
	localstore "resume-screener/internal/shared/storage/object/local"
	s3store "resume-screener/internal/shared/storage/object/s3"
	"resume-screener/internal/shared/telemetry"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	CandidatesRepo   candidates.Repo
	JobsRepo         jobs.Repo
	ResumesRepo      resumes.Repo
	ApplicationsRepo applications.Repo

	CandidatesService   *candidates.Service
	JobsService         *jobs.Service
	ResumesService      *resumes.Service
	ApplicationsService *applications.Service
	JobDescriptions     *jobdesc.Store
	ScreeningService    *screening.Service
}

// Build prepares dependencies from cfg and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Handlers: []server.RouteRegistrar{
			candidates.NewHandler(app.CandidatesService),
			jobs.NewHandler(app.JobsService),
			resumes.NewHandler(app.ResumesService),
			applications.NewHandler(app.ApplicationsService, cfg.MaxUploadBytes),
			jobdesc.NewHandler(app.JobDescriptions),
			screening.NewHandler(app.ScreeningService, server.ScreeningRateLimit(cfg.ScreeningsPerMinute)),
		},
	})
	return app, nil
}

// Close releases the database pool and the queue connection.
func (a *App) Close() error {
	var firstErr error
	if closer, ok := a.Queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "err": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	switch cfg.QueueDriver {
	case "sqs":
		if strings.TrimSpace(cfg.SQSQueueURL) == "" {
			return nil, fmt.Errorf("QUEUE_DRIVER=sqs requires SQS_QUEUE_URL")
		}
		return queue.NewSQSClient(ctx, cfg.SQSQueueURL, cfg.AWSRegion)
	case "rabbitmq":
		if strings.TrimSpace(cfg.RabbitMQURL) == "" {
			return nil, fmt.Errorf("QUEUE_DRIVER=rabbitmq requires RABBITMQ_URL")
		}
		return queue.NewRabbitMQClient(cfg.RabbitMQURL, cfg.RabbitMQQueue)
	default:
		return queue.Nop{}, nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.CandidatesRepo = &candidates.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.ApplicationsRepo = &applications.PGRepo{DB: app.DB}
	} else {
		candRepo := candidates.NewMemoryRepo()
		jobRepo := jobs.NewMemoryRepo()
		app.CandidatesRepo = candRepo
		app.JobsRepo = jobRepo
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.ApplicationsRepo = applications.NewMemoryRepo(candRepo, jobRepo)
	}

	app.CandidatesService = &candidates.Service{Repo: app.CandidatesRepo}
	app.JobsService = &jobs.Service{Repo: app.JobsRepo}
	app.ResumesService = &resumes.Service{
		Store:    app.Store,
		Repo:     app.ResumesRepo,
		MaxBytes: app.Config.MaxUploadBytes,
	}
	app.ApplicationsService = &applications.Service{
		Repo:       app.ApplicationsRepo,
		Candidates: app.CandidatesRepo,
		Jobs:       app.JobsRepo,
		Resumes:    app.ResumesService,
	}
	app.JobDescriptions = &jobdesc.Store{
		Objects:  app.Store,
		MaxBytes: app.Config.MaxUploadBytes,
	}

	pipeline := &screening.Pipeline{
		JobDescriptions: app.JobDescriptions,
		Postings:        app.JobsRepo,
		Candidates: &screening.StoreEnumerator{
			Jobs:         app.JobsRepo,
			Applications: app.ApplicationsRepo,
			Candidates:   app.CandidatesRepo,
			Resumes:      app.ResumesRepo,
		},
		Objects:     app.Store,
		Outcomes:    app.ApplicationsService,
		Extractions: app.ResumesService,
		Workers:     app.Config.ScreeningWorkers,
	}
	app.ScreeningService = &screening.Service{
		Pipeline: pipeline,
		Cache:    screening.NewRunCache(app.Config.ScreeningRunTTL, nil),
		Objects:  app.Store,
		Queue:    app.Queue,
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
