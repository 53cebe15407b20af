package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mrwolf/companion-server/internal/config"
	"github.com/mrwolf/companion-server/internal/db"
	"github.com/mrwolf/companion-server/internal/session"
)

func NewRouter(cfg *config.Config, database *db.DB, sess *session.Session, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))

	handlers := NewHandlers(cfg, database, sess, logger)

	// Public endpoints
	r.Get("/health", handlers.Health)
	r.Get("/about", handlers.About)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg))
		r.Use(RateLimitMiddleware(NewRateLimiter(cfg.RateLimit, time.Minute)))

		// Binary responses set their own content type
		r.Get("/persona/avatar", handlers.GetAvatar)
		r.Post("/upscale", handlers.Upscale)

		r.Group(func(r chi.Router) {
			r.Use(JSONContentType)

			r.Get("/persona", handlers.GetPersona)
			r.Put("/persona", handlers.UpdatePersona)
			r.Post("/persona/reset", handlers.ResetPersona)
			r.Put("/persona/avatar", handlers.SetAvatar)

			r.Get("/dataset", handlers.GetDataset)
			r.Post("/dataset/text", handlers.AddText)
			r.Post("/dataset/image", handlers.AddImage)
			r.Post("/dataset/save", handlers.SaveDataset)
			r.Post("/dataset/load", handlers.LoadDataset)
			r.Post("/dataset/clear", handlers.ClearDataset)

			r.Get("/chat", handlers.GetChat)
			r.Post("/chat", handlers.Chat)
			r.Delete("/chat", handlers.ResetChat)

			r.Get("/activity", handlers.Activity)
		})
	})

	return r
}
