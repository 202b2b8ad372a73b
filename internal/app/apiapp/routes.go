package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Segsoto/EstafadoresCR/internal/config"
	adminsvc "github.com/Segsoto/EstafadoresCR/internal/services/admin"
	"github.com/Segsoto/EstafadoresCR/internal/services/adminauth"
	"github.com/Segsoto/EstafadoresCR/internal/services/broadcast"
	commentsvc "github.com/Segsoto/EstafadoresCR/internal/services/comments"
	ratesvc "github.com/Segsoto/EstafadoresCR/internal/services/rate"
	reportsvc "github.com/Segsoto/EstafadoresCR/internal/services/reports"
	votesvc "github.com/Segsoto/EstafadoresCR/internal/services/votes"
	"github.com/Segsoto/EstafadoresCR/internal/transport/http/handlers"
)

type Dependencies struct {
	ReportService  *reportsvc.Service
	VoteService    *votesvc.Service
	CommentService *commentsvc.Service
	AdminService   *adminsvc.Service
	AdminAuth      *adminauth.Service
	RateLimiter    *ratesvc.Limiter
	Hub            *broadcast.Hub
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	reportsHandler := handlers.NewReportsHandler(deps.ReportService)
	votesHandler := handlers.NewVotesHandler(deps.VoteService)
	commentsHandler := handlers.NewCommentsHandler(deps.CommentService)
	adminHandler := handlers.NewAdminHandler(deps.AdminService, deps.AdminAuth)

	generalLimitMW := RateLimitMiddleware(deps.RateLimiter, deps.Logger)
	reportLimitMW := ReportRateLimitMiddleware(deps.RateLimiter, deps.Logger)
	adminAuthMW := AdminAuthMiddleware(deps.AdminAuth, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	if deps.Hub != nil {
		r.Handle("/ws", deps.Hub)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(generalLimitMW)

		r.Route("/reports", func(r chi.Router) {
			r.With(reportLimitMW).Post("/", reportsHandler.Submit)
			r.Get("/", reportsHandler.List)
			r.Get("/search", reportsHandler.Search)
			r.Get("/{id}", reportsHandler.Get)
			r.Post("/{id}/vote", votesHandler.Cast)
			r.Get("/{id}/comments", commentsHandler.List)
			r.Post("/{id}/comments", commentsHandler.Add)
		})

		r.Get("/stats", reportsHandler.Stats)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(adminAuthMW)
				r.Post("/logout", adminHandler.Logout)
				r.Get("/reports", adminHandler.List)
				r.Get("/moderation/pending", adminHandler.PendingReview)
				r.Put("/reports/{id}/status", adminHandler.UpdateStatus)
				r.Post("/reports/{id}/approve", adminHandler.Approve)
				r.Post("/reports/{id}/reject", adminHandler.Reject)
				r.Put("/reports/{id}/verify", adminHandler.Verify)
				r.Delete("/reports/{id}", adminHandler.Delete)
			})
		})
	})
}
