package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inventory-analyzer/chat-platform/internal/faq"
	"github.com/inventory-analyzer/chat-platform/internal/middleware"
	"github.com/inventory-analyzer/chat-platform/internal/service"
	"github.com/inventory-analyzer/chat-platform/internal/session"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
)

// RouterConfig carries the knobs the router needs from configuration.
type RouterConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter assembles the full API router.
func NewRouter(
	sessions *session.Manager,
	chatSvc *service.ChatService,
	faqSvc *faq.Service,
	cfg RouterConfig,
	log *logger.Logger,
) chi.Router {
	healthHandler := NewHealthHandler()
	chatHandler := NewChatHandler(sessions, chatSvc, log)
	messageHandler := NewMessageHandler(sessions, chatSvc, log)
	agentHandler := NewAgentHandler(sessions, log)
	faqHandler := NewFAQHandler(faqSvc)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session)
		r.Use(middleware.Logging(log))
		if cfg.RateLimitRequests > 0 {
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}

		r.Get("/faqs", faqHandler.List)

		r.Get("/agent", agentHandler.Get)
		r.Put("/agent", agentHandler.Set)

		// Welcome-screen send: creates the chat and sends in one step.
		r.Post("/messages", messageHandler.Start)

		r.Route("/chats", func(r chi.Router) {
			r.Post("/", chatHandler.Create)
			r.Get("/", chatHandler.List)
			r.Delete("/current", chatHandler.Welcome)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", chatHandler.Get)
				r.Post("/select", chatHandler.Select)
				r.Post("/messages", messageHandler.Send)
			})
		})
	})

	return r
}
