package botapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/Segsoto/EstafadoresCR/internal/config"
	"github.com/Segsoto/EstafadoresCR/internal/domain/model"
	s3infra "github.com/Segsoto/EstafadoresCR/internal/infra/s3"
	tginfra "github.com/Segsoto/EstafadoresCR/internal/infra/telegram"
	"github.com/Segsoto/EstafadoresCR/internal/jobs/cleanup"
	pgrepo "github.com/Segsoto/EstafadoresCR/internal/repo/postgres"
	adminsvc "github.com/Segsoto/EstafadoresCR/internal/services/admin"
	mediasvc "github.com/Segsoto/EstafadoresCR/internal/services/media"
)

const (
	queueEmptyMessage   = "No hay reportes pendientes de revisión."
	approvedMessage     = "Reporte aprobado y publicado."
	rejectedMessage     = "Reporte rechazado."
	askReasonMessage    = "Envíe el motivo del rechazo."
	emptyReasonMessage  = "El motivo no puede estar vacío."
	actionFailedMessage = "No se pudo completar la acción."

	reviewBatchSize = 5
)

type rejectState struct {
	ReportID    int64
	ModeratorID int64
}

type App struct {
	cfg          config.Config
	logger       *zap.Logger
	postgres     *pgxpool.Pool
	s3           *minio.Client
	bot          *tginfra.Bot
	reportRepo   *pgrepo.ReportRepo
	adminService *adminsvc.Service
	cleanupJob   *cleanup.Job

	rejectMu     sync.Mutex
	rejectByChat map[int64]rejectState
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres for bot app: %w", err)
	}

	s3Client, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init s3 for bot app: %w", err)
	}

	storage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(storage, cfg.Reports.MaxImageSizeBytes)

	reportRepo := pgrepo.NewReportRepo(pool)
	voteRepo := pgrepo.NewVoteRepo(pool)
	commentRepo := pgrepo.NewCommentRepo(pool)

	notFound := func(err error) bool { return errors.Is(err, pgrepo.ErrReportNotFound) }
	adminService := adminsvc.NewService(reportRepo, voteRepo, commentRepo, mediaService, nil, notFound, logger)

	cleanupJob := cleanup.NewJob(reportRepo, voteRepo, commentRepo, mediaService, cfg.Reports.RejectedRetention, logger)

	var bot *tginfra.Bot
	if strings.TrimSpace(cfg.Bot.Token) != "" {
		bot, err = tginfra.NewBot(cfg.Bot.Token)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init telegram bot: %w", err)
		}
	} else {
		logger.Warn("BOT_TOKEN is empty, moderation listener disabled")
	}

	return &App{
		cfg:          cfg,
		logger:       logger,
		postgres:     pool,
		s3:           s3Client,
		bot:          bot,
		reportRepo:   reportRepo,
		adminService: adminService,
		cleanupJob:   cleanupJob,
		rejectByChat: make(map[int64]rejectState),
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot app started")

	errCh := make(chan error, 2)
	go func() {
		errCh <- a.runCleanupLoop(ctx)
	}()

	if a.bot != nil {
		go func() {
			errCh <- a.bot.Listen(ctx, tginfra.Handlers{
				OnCommand:  a.handleCommand,
				OnText:     a.handleText,
				OnCallback: a.handleCallback,
			})
		}()
	}

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("bot app stopped")
			return nil
		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) {
				continue
			}
			return err
		}
	}
}

func (a *App) runCleanupLoop(ctx context.Context) error {
	if a.cleanupJob == nil {
		return nil
	}

	interval := a.cfg.Bot.CleanupInterval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	if err := a.cleanupJob.Run(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.cleanupJob.Run(ctx); err != nil {
				return err
			}
		}
	}
}

func (a *App) handleCommand(ctx context.Context, update tginfra.CommandUpdate) error {
	if a.bot == nil {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(update.Command)) {
	case "queue", "pendientes":
		return a.sendReviewQueue(ctx, update.ChatID)
	default:
		return nil
	}
}

func (a *App) handleCallback(ctx context.Context, update tginfra.CallbackUpdate) error {
	if a.bot == nil {
		return nil
	}

	parts := strings.Split(strings.TrimSpace(update.Data), ":")
	if len(parts) != 3 || parts[0] != "mod" {
		return a.bot.AnswerCallback(ctx, update.CallbackID, "Acción desconocida")
	}

	reportID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || reportID <= 0 {
		return a.bot.AnswerCallback(ctx, update.CallbackID, "Reporte inválido")
	}

	switch parts[1] {
	case "approve":
		if _, err := a.adminService.Approve(ctx, reportID); err != nil {
			return a.bot.AnswerCallback(ctx, update.CallbackID, actionFailedMessage)
		}
		if err := a.bot.AnswerCallback(ctx, update.CallbackID, "Aprobado"); err != nil {
			return err
		}
		return a.bot.SendText(ctx, update.ChatID, approvedMessage)
	case "reject":
		a.rejectMu.Lock()
		a.rejectByChat[update.ChatID] = rejectState{
			ReportID:    reportID,
			ModeratorID: update.UserID,
		}
		a.rejectMu.Unlock()
		if err := a.bot.AnswerCallback(ctx, update.CallbackID, "Esperando motivo"); err != nil {
			return err
		}
		return a.bot.SendText(ctx, update.ChatID, askReasonMessage)
	default:
		return a.bot.AnswerCallback(ctx, update.CallbackID, "Acción desconocida")
	}
}

func (a *App) handleText(ctx context.Context, update tginfra.TextUpdate) error {
	if a.bot == nil {
		return nil
	}

	a.rejectMu.Lock()
	state, ok := a.rejectByChat[update.ChatID]
	a.rejectMu.Unlock()
	if !ok || state.ModeratorID != update.UserID {
		return nil
	}

	reason := strings.TrimSpace(update.Text)
	if reason == "" {
		return a.bot.SendText(ctx, update.ChatID, emptyReasonMessage)
	}

	if _, err := a.adminService.Reject(ctx, state.ReportID, reason); err != nil {
		return a.bot.SendText(ctx, update.ChatID, actionFailedMessage)
	}

	a.rejectMu.Lock()
	delete(a.rejectByChat, update.ChatID)
	a.rejectMu.Unlock()

	return a.bot.SendText(ctx, update.ChatID, rejectedMessage)
}

func (a *App) sendReviewQueue(ctx context.Context, chatID int64) error {
	queue, err := a.adminService.PendingReview(ctx, reviewBatchSize)
	if err != nil {
		return err
	}
	if len(queue) == 0 {
		return a.bot.SendText(ctx, chatID, queueEmptyMessage)
	}

	for _, rep := range queue {
		if err := a.bot.SendReviewItem(ctx, chatID, formatReviewMessage(rep), rep.ID); err != nil {
			return err
		}
	}
	return nil
}

func formatReviewMessage(rep model.Report) string {
	lines := []string{
		fmt.Sprintf("Reporte #%d", rep.ID),
		fmt.Sprintf("Teléfono: %s", rep.PhoneNumber),
		fmt.Sprintf("Tipo: %s", rep.ScamType),
		fmt.Sprintf("Motivo de revisión: %s", defaultString(rep.ModerationReason, "-")),
		fmt.Sprintf("Puntaje: %.2f", rep.ModerationScore),
		"",
		"Descripción:",
		rep.Description,
	}
	return strings.Join(lines, "\n")
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func (a *App) Close() {
	if a.postgres != nil {
		a.postgres.Close()
	}
	_ = a.s3
}
