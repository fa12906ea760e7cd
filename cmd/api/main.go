package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"dropship-storefront-connect/internal/application"
	"dropship-storefront-connect/internal/application/webhook_handlers"
	"dropship-storefront-connect/internal/config"
	"dropship-storefront-connect/internal/infrastructure/accountcache"
	apiinfra "dropship-storefront-connect/internal/infrastructure/api"
	"dropship-storefront-connect/internal/infrastructure/encryption"
	"dropship-storefront-connect/internal/infrastructure/repository"
	shopifyinfra "dropship-storefront-connect/internal/infrastructure/shopify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const principalCacheTTL = 5 * time.Minute

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Configuration is read once and injected; it is never re-read per request.
	cfg := config.FromEnv()
	if err := cfg.ValidateInstall(); err != nil {
		logger.Warn().Err(err).Msg("Install configuration incomplete; connect requests will be rejected until fixed")
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)

	// Connect to Redis for the principal cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	if cfg.EncryptionKey == "" {
		logger.Fatal().Msg("ENCRYPTION_KEY environment variable is required")
	}
	encryptionService, err := encryption.NewService(cfg.EncryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	// Initialize repositories
	bindingRepo := repository.NewMongoBindingRepository(db)
	if err := bindingRepo.EnsureIndexes(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create binding indexes")
	}

	accountGateway := repository.NewMongoAccountGateway(db)
	cachedAccounts := accountcache.NewRedisPrincipalCache(accountGateway, redisClient, principalCacheTTL, logger)

	// OAuth client pool for callback verification and token exchange
	clientPool := shopifyinfra.NewClientPool(logger)

	// Initialize application services
	connectService := application.NewConnectService(
		bindingRepo,
		cachedAccounts,
		encryptionService,
		clientPool,
		cfg,
		logger,
	)

	// Initialize webhook dispatcher and register handlers
	webhookDispatcher := application.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(logger, bindingRepo))

	webhookVerifier := shopifyinfra.NewWebhookVerifier(cfg.WebhookSecret)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := apiinfra.NewMetrics(registry)

	handler := apiinfra.NewHandler(connectService, webhookDispatcher, webhookVerifier, metrics, cfg.AppHost, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Metrics endpoint
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Swagger documentation - public
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Connect flow and store lifecycle
	handler.Routes(r)

	logger.Info().Str("port", cfg.Port).Msg("Starting API server")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
