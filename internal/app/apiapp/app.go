package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Segsoto/EstafadoresCR/internal/config"
	s3infra "github.com/Segsoto/EstafadoresCR/internal/infra/s3"
	pgrepo "github.com/Segsoto/EstafadoresCR/internal/repo/postgres"
	redrepo "github.com/Segsoto/EstafadoresCR/internal/repo/redis"
	adminsvc "github.com/Segsoto/EstafadoresCR/internal/services/admin"
	"github.com/Segsoto/EstafadoresCR/internal/services/adminauth"
	"github.com/Segsoto/EstafadoresCR/internal/services/broadcast"
	"github.com/Segsoto/EstafadoresCR/internal/services/classifier"
	commentsvc "github.com/Segsoto/EstafadoresCR/internal/services/comments"
	mediasvc "github.com/Segsoto/EstafadoresCR/internal/services/media"
	modsvc "github.com/Segsoto/EstafadoresCR/internal/services/moderation"
	ratesvc "github.com/Segsoto/EstafadoresCR/internal/services/rate"
	reportsvc "github.com/Segsoto/EstafadoresCR/internal/services/reports"
	votesvc "github.com/Segsoto/EstafadoresCR/internal/services/votes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	hub        *broadcast.Hub
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	var redisClient *goredis.Client
	if c, err := redrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warn("redis init failed, continuing in degraded mode", zap.Error(err))
	} else {
		redisClient = c
	}

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	reportRepo := pgrepo.NewReportRepo(pool)
	voteRepo := pgrepo.NewVoteRepo(pool)
	commentRepo := pgrepo.NewCommentRepo(pool)
	rateRepo := redrepo.NewRateRepo(redisClient)
	adminSessionRepo := redrepo.NewAdminSessionRepo(redisClient)

	hub := broadcast.NewHub(log)

	gateway := classifier.NewGateway(classifier.Config{
		BaseURL:   cfg.Classifier.BaseURL,
		AuthToken: cfg.Classifier.AuthToken,
		Timeout:   cfg.Classifier.Timeout,
	}, log)
	moderationService := modsvc.NewService(gateway, log)

	evidenceStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(evidenceStorage, cfg.Reports.MaxImageSizeBytes)

	rateLimiter := ratesvc.NewLimiter(
		rateRepo,
		cfg.RateLimit.GeneralMax,
		cfg.RateLimit.GeneralWindow,
		cfg.RateLimit.ReportMax,
		cfg.RateLimit.ReportWindow,
	)

	adminAuth := adminauth.NewService(
		cfg.Admin.Username,
		cfg.Admin.Password,
		cfg.Admin.JWTSecret,
		cfg.Admin.SessionIdle,
		adminSessionRepo,
	)

	notFound := func(err error) bool { return errors.Is(err, pgrepo.ErrReportNotFound) }
	alreadyVoted := func(err error) bool { return errors.Is(err, pgrepo.ErrAlreadyVoted) }

	reportService := reportsvc.NewService(
		reportRepo,
		moderationService,
		mediaService,
		hub,
		notFound,
		cfg.Reports.PageSize,
		cfg.Reports.SearchMinLength,
		log,
	)
	voteService := votesvc.NewService(voteRepo, reportRepo, hub, notFound, alreadyVoted, log)
	commentService := commentsvc.NewService(commentRepo, reportRepo, hub, notFound, log)
	adminService := adminsvc.NewService(reportRepo, voteRepo, commentRepo, mediaService, hub, notFound, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		ReportService:  reportService,
		VoteService:    voteService,
		CommentService: commentService,
		AdminService:   adminService,
		AdminAuth:      adminAuth,
		RateLimiter:    rateLimiter,
		Hub:            hub,
		Logger:         log,
		Config:         cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		hub:        hub,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.hub != nil {
		a.hub.Close()
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
