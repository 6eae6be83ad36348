// Package main is the entry point for the Inventory Analyzer AI server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/inventory-analyzer/chat-platform/internal/config"
	"github.com/inventory-analyzer/chat-platform/internal/events"
	"github.com/inventory-analyzer/chat-platform/internal/faq"
	"github.com/inventory-analyzer/chat-platform/internal/handler"
	"github.com/inventory-analyzer/chat-platform/internal/sender"
	"github.com/inventory-analyzer/chat-platform/internal/service"
	"github.com/inventory-analyzer/chat-platform/internal/session"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
	"github.com/inventory-analyzer/chat-platform/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting Inventory Analyzer AI server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "inventory-analyzer-chat", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.Connect(cfg.NATSURL, log)
		if err != nil {
			log.Warn("failed to connect to NATS, events disabled", zap.Error(err))
		} else {
			defer publisher.Close()
		}
	}

	snd := sender.New(sender.Options{
		UpstreamURL:     cfg.UpstreamChatURL,
		SimulatedDelay:  cfg.SimulatedReplyDelay,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		DefaultLLM:      cfg.DefaultLLM,
	}, log)
	log.Info("reply sender selected", zap.String("sender", snd.Name()))

	sessions := session.NewManager(cfg.SessionIdleTimeout, log)
	defer sessions.Close()

	chatSvc := service.NewChatService(snd, publisher, log, cfg.SendTimeout)
	faqSvc := faq.NewService(cfg.FAQURL, cfg.FAQCacheTTL, nil, log)

	r := handler.NewRouter(sessions, chatSvc, faqSvc, handler.RouterConfig{
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
