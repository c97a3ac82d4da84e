package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups the endpoint handlers mounted by NewRouter
type Handlers struct {
	Recap       *RecapHandler
	Leaderboard *LeaderboardHandler
	Group       *GroupHandler
	Challenge   *ChallengeHandler
	Proof       *ProofHandler
	Health      *HealthHandler
	Metrics     http.Handler
}

// NewRouter wires every route
func NewRouter(h Handlers, mw *Middleware, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireTriggerSecret)
		pr.Get("/weekly-recap", h.Recap.WeeklyRecap)
		pr.Post("/weekly-recap", h.Recap.WeeklyRecap)
	})

	r.Get("/challenges/{id}/leaderboard", h.Leaderboard.Show)
	r.Get("/challenges/{id}/leaderboard/stream", h.Leaderboard.Stream)

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireUser)

		pr.Get("/groups", h.Group.ListGroups)
		pr.Post("/groups", h.Group.CreateGroup)
		pr.Post("/groups/{id}/members", h.Group.AddMember)
		pr.Post("/groups/{id}/challenges", h.Challenge.OpenChallenge)
		pr.Get("/groups/{id}/challenges/current", h.Challenge.CurrentChallenge)
		pr.Post("/challenges/{id}/close", h.Challenge.CloseChallenge)

		pr.With(mw.RateLimit).Post("/challenges/{id}/proofs", h.Proof.SubmitProof)
	})

	return r
}
