package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adjeikofi/cropdoc"
	"github.com/adjeikofi/cropdoc/internal/ai"
	"github.com/adjeikofi/cropdoc/internal/diagnosis"
	"github.com/adjeikofi/cropdoc/internal/email"
	"github.com/adjeikofi/cropdoc/internal/identity"
	"github.com/adjeikofi/cropdoc/internal/queue"
	"github.com/adjeikofi/cropdoc/internal/storage"
	"github.com/adjeikofi/cropdoc/postgres"
)

// Services holds all application services.
type Services struct {
	UserService      cropdoc.UserService
	SessionService   cropdoc.SessionService
	UploadService    cropdoc.UploadService
	DiagnosisService cropdoc.DiagnosisService
	FileStorage      cropdoc.FileStorage
	AIService        cropdoc.AIService
	ContactService   cropdoc.ContactService
	IdentityVerifier cropdoc.IdentityVerifier
	Queue            queue.Queue
	WorkerPool       *queue.WorkerPool
}

// initServices initializes all application services.
func initServices(ctx context.Context, pool *pgxpool.Pool, cfg *Config, logger *slog.Logger) (*Services, error) {
	// Initialize database wrapper with all domain services
	db := postgres.NewDB(pool)
	logger.Info("database services initialized")

	// Initialize file storage
	fileStorage, err := initFileStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("file storage initialized", slog.String("provider", cfg.StorageProvider))

	// Initialize AI service
	aiService := initAIService(cfg, logger)
	logger.Info("AI service initialized", slog.String("provider", cfg.AIProvider))

	// Initialize contact delivery
	contactService := initContactService(cfg, logger)
	logger.Info("contact service initialized", slog.String("provider", cfg.ContactProvider))

	// Initialize identity verification
	verifier := initIdentityVerifier(cfg, logger)
	logger.Info("identity verifier initialized", slog.String("provider", cfg.IdentityProvider))

	// Initialize diagnosis queue and worker pool
	q := queue.NewPostgresQueue(pool, logger)
	workers := queue.NewWorkerPool(q, logger, queue.Config{
		WorkerCount:      cfg.QueueWorkerCount,
		PollInterval:     cfg.QueuePollInterval,
		JobTimeout:       cfg.QueueJobTimeout,
		ShutdownTimeout:  cfg.QueueShutdownTimeout,
		CleanupInterval:  cfg.QueueCleanupInterval,
		CleanupRetention: cfg.QueueCleanupRetention,
	})
	diagnosis.NewJobHandler(db.UploadService, fileStorage, aiService, logger).Register(workers)
	logger.Info("diagnosis worker pool initialized", slog.Int("workers", cfg.QueueWorkerCount))

	return &Services{
		UserService:      db.UserService,
		SessionService:   db.SessionService,
		UploadService:    db.UploadService,
		DiagnosisService: diagnosis.NewService(fileStorage, logger),
		FileStorage:      fileStorage,
		AIService:        aiService,
		ContactService:   contactService,
		IdentityVerifier: verifier,
		Queue:            q,
		WorkerPool:       workers,
	}, nil
}

// initFileStorage creates the appropriate file storage implementation.
func initFileStorage(ctx context.Context, cfg *Config, logger *slog.Logger) (cropdoc.FileStorage, error) {
	return storage.NewFileStorage(ctx, logger, cropdoc.StorageConfig{
		Provider:  cfg.StorageProvider,
		LocalPath: cfg.StorageLocalPath,
		LocalURL:  cfg.StorageLocalURL,
		S3Bucket:  cfg.StorageS3Bucket,
		S3Region:  cfg.StorageS3Region,
		S3BaseURL: cfg.StorageS3BaseURL,
	})
}

// initAIService creates the appropriate AI service implementation.
func initAIService(cfg *Config, logger *slog.Logger) cropdoc.AIService {
	return ai.NewAIService(logger, cropdoc.AIConfig{
		Provider:     cfg.AIProvider,
		ClaudeAPIKey: cfg.AIClaudeAPIKey,
		ClaudeModel:  cfg.AIClaudeModel,
		MaxTokens:    cfg.AIMaxTokens,
		Temperature:  cfg.AITemperature,
	})
}

// initContactService creates the appropriate contact delivery implementation.
func initContactService(cfg *Config, logger *slog.Logger) cropdoc.ContactService {
	return email.NewContactService(logger, cropdoc.ContactConfig{
		Provider:            cfg.ContactProvider,
		ToAddress:           cfg.ContactToAddress,
		FromAddress:         cfg.ContactFromAddress,
		PostmarkServerToken: cfg.ContactPostmarkToken,
	})
}

// initIdentityVerifier creates the identity verification implementation.
func initIdentityVerifier(cfg *Config, logger *slog.Logger) cropdoc.IdentityVerifier {
	return identity.NewVerifier(logger, cropdoc.IdentityConfig{
		Provider:  cfg.IdentityProvider,
		VerifyURL: cfg.IdentityVerifyURL,
	})
}
