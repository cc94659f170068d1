package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"adscribe/internal/ai"
	"adscribe/internal/config"
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

	// Connect to RabbitMQ
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	// Copy generation dependencies
	draftRepo := repository.NewDraftRepository(db)
	generator := ai.NewClient(ai.Config{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Retries: 2,
	})
	copySvc := service.NewCopyService(draftRepo, nil, generator, log)

	// Start consumer
	consumer, err := queue.NewConsumer(conn, copyQueueName, func(job *queue.CopyJob) error {
		return copySvc.ProcessJob(context.Background(), job)
	})
	if err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}

	if err := consumer.Start(); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	log.WithField("queue", copyQueueName).Info("worker started")

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")

	if err := consumer.Stop(); err != nil {
		log.WithError(err).Error("error stopping consumer")
	}

	conn.Close()
	db.Close()

	log.Info("worker stopped")
}
