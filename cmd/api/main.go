package main

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"adscribe/internal/config"
	"adscribe/internal/crypto"
	"adscribe/internal/handler"
	"adscribe/internal/middleware"
	"adscribe/internal/platform/facebook"
	"adscribe/internal/queue"
	"adscribe/internal/repository"
	"adscribe/internal/service"
)

const copyQueueName = "copy_generation"

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsDevelopment() {
		log.SetFormatter(&logrus.TextFormatter{})
		log.SetLevel(logrus.DebugLevel)
	}

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Info("connected to database")

	// Connect to RabbitMQ for copy generation jobs
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	publisher, err := queue.NewPublisher(conn, copyQueueName)
	if err != nil {
		log.Fatalf("Failed to create queue publisher: %v", err)
	}

	// Token encryption for stored platform credentials
	cipher, err := crypto.NewTokenCipher(cfg.Auth.EncryptionKey)
	if err != nil {
		log.Fatalf("Failed to initialize token cipher: %v", err)
	}

	// Repositories
	tenantRepo := repository.NewTenantRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)

	// Services
	credentialSvc := service.NewCredentialService(integrationRepo, cipher)
	draftSvc := service.NewDraftService(draftRepo)
	copySvc := service.NewCopyService(draftRepo, publisher, nil, log)
	fbClient := facebook.NewClient(facebook.Config{
		BaseURL:    cfg.Facebook.BaseURL,
		APIVersion: cfg.Facebook.APIVersion,
	})
	publisherSvc := service.NewPublisherService(tenantRepo, draftRepo, credentialSvc, fbClient, log, service.PublisherConfig{
		DailyBudget: cfg.Publisher.DailyBudget,
		Countries:   cfg.Publisher.Countries,
	})
	healthSvc := service.NewHealthService(db, cfg.GetRabbitMQURL(), "1.0.0")

	// Handlers
	draftHandler := handler.NewDraftHandler(draftSvc, copySvc, publisherSvc)
	integrationHandler := handler.NewIntegrationHandler(credentialSvc)
	healthHandler := handler.NewHealthHandler(healthSvc)

	// Router
	router := mux.NewRouter()
	router.Use(middleware.Recovery(log))

	router.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET")

	// Authenticated API: the tenant comes from the verified session or
	// API key, never from a client-supplied identifier.
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(log,
		middleware.NewJWTStrategy([]byte(cfg.Auth.JWTSecret), tenantRepo),
		middleware.NewAPIKeyStrategy(tenantRepo),
	))

	api.HandleFunc("/drafts", draftHandler.Create).Methods("POST")
	api.HandleFunc("/drafts", draftHandler.List).Methods("GET")
	api.HandleFunc("/drafts/{id}", draftHandler.GetByID).Methods("GET")
	api.HandleFunc("/drafts/{id}", draftHandler.Delete).Methods("DELETE")
	api.HandleFunc("/drafts/{id}/generate", draftHandler.Generate).Methods("POST")
	api.HandleFunc("/drafts/{id}/submit", draftHandler.Submit).Methods("POST")

	api.HandleFunc("/integrations/{platform}", integrationHandler.Connect).Methods("POST")
	api.HandleFunc("/integrations/{platform}", integrationHandler.Status).Methods("GET")
	api.HandleFunc("/integrations/{platform}", integrationHandler.Disconnect).Methods("DELETE")

	// Start server
	addr := ":" + cfg.Server.Port
	log.WithField("addr", addr).Info("API server starting")

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
