// Package main is the entry point for the storefront API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/williamkasasa/hackathon-seaweed/internal/catalog"
	"github.com/williamkasasa/hackathon-seaweed/internal/checkout"
	"github.com/williamkasasa/hackathon-seaweed/internal/config"
	"github.com/williamkasasa/hackathon-seaweed/internal/events"
	"github.com/williamkasasa/hackathon-seaweed/internal/handler"
	"github.com/williamkasasa/hackathon-seaweed/internal/llm"
	"github.com/williamkasasa/hackathon-seaweed/internal/middleware"
	"github.com/williamkasasa/hackathon-seaweed/internal/orchestrator"
	"github.com/williamkasasa/hackathon-seaweed/internal/payment"
	"github.com/williamkasasa/hackathon-seaweed/internal/tool"
	"github.com/williamkasasa/hackathon-seaweed/pkg/logger"
	"github.com/williamkasasa/hackathon-seaweed/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting storefront API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "hackathon-seaweed", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing")
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS for order/chat events
	natsClient, err := events.Connect(events.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log)
	if err != nil {
		log.Error("failed to connect to NATS")
		os.Exit(1)
	}
	defer natsClient.Close()

	publisher := events.NewPublisher(natsClient, log)
	if err := publisher.EnsureStream(ctx); err != nil {
		log.Error("failed to ensure event stream")
		os.Exit(1)
	}

	// Build the product catalog
	catalogStore := buildCatalog(cfg, log)

	// Build the conversation orchestrator
	dispatcher := tool.NewDispatcher(catalogStore, log)
	gateway := llm.NewGatewayClient(cfg.ChatAPIKey, cfg.ChatBaseURL)
	chatOrchestrator := orchestrator.New(gateway, dispatcher, cfg.ChatModel, cfg.ChatTemperature, log)

	// Build the checkout engine
	sessionStore := buildSessionStore(cfg)
	paymentClient := payment.NewClient(payment.Config{
		SPTURL:     cfg.PaymentSPTURL,
		ChargeURL:  cfg.PaymentChargeURL,
		NetworkID:  cfg.SellerNetworkID,
		ExternalID: cfg.SellerExternalID,
	}, log)
	checkoutService := checkout.NewService(sessionStore, catalogStore, paymentClient, publisher, cfg.Currency, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(natsClient)
	chatHandler := handler.NewChatHandler(chatOrchestrator, publisher, log)
	productHandler := handler.NewProductHandler(catalogStore, log)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/chat", chatHandler.Send)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.Get)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", checkoutHandler.Get)
				r.Post("/", checkoutHandler.Update)
				r.Post("/complete", checkoutHandler.Complete)
			})
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error")
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown")
	}

	log.Info("server stopped")
}

// buildCatalog picks the catalog backend: the static seeded store, or the
// LLM generator when a provider key is configured.
func buildCatalog(cfg *config.Config, log *logger.Logger) catalog.Store {
	if cfg.CatalogSource != "generated" {
		return catalog.NewSeededStore()
	}

	var client llm.Client
	var err error
	if cfg.AnthropicAPIKey != "" {
		client, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	} else if cfg.OpenAIAPIKey != "" {
		client, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	} else {
		log.Warn("generated catalog requested without a provider key, using seeded catalog")
		return catalog.NewSeededStore()
	}
	if err != nil {
		log.Warn("failed to create catalog LLM client, using seeded catalog")
		return catalog.NewSeededStore()
	}

	return catalog.NewGenerator(client, cfg.CatalogCacheTTL, log)
}

// buildSessionStore picks the checkout session backend.
func buildSessionStore(cfg *config.Config) checkout.Store {
	if cfg.SessionStore == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		return checkout.NewRedisStore(client, cfg.SessionTTL)
	}
	return checkout.NewMemoryStore()
}
