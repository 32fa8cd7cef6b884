// Package app wires configuration, storage, the generation gateway and the
// services into one container shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"

	"quizforge/internal/adapter"
	"quizforge/internal/adapter/llm"
	"quizforge/internal/adapter/quizgen"
	"quizforge/internal/cache"
	"quizforge/internal/config"
	"quizforge/internal/database"
	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/repository"
	"quizforge/internal/service"
	"quizforge/internal/validation"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds the long-lived dependencies of a running process.
type Container struct {
	Config    *config.Config
	DB        *sqlx.DB
	Cache     domain.Cache
	Validator *validation.Validator

	Quizzes  service.QuizService
	Sessions service.SessionService
	Analysis service.AnalysisService
	Study    service.StudyService

	redis *redis.Client
}

// Option customizes Build.
type Option func(*buildOptions)

type buildOptions struct {
	completer domain.Completer
}

// WithCompleter injects the completion provider instead of building one
// from cfg.LLM.
func WithCompleter(c domain.Completer) Option {
	return func(o *buildOptions) { o.completer = c }
}

// Build connects to the store, applies pending migrations and assembles the
// services. A missing or unreachable Redis falls back to an in-memory cache.
func Build(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(ctx, db.DB, cfg.DB.Driver, database.Up); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	c := &Container{
		Config:    cfg,
		DB:        db,
		Validator: validation.NewValidator(cfg.Quiz.MaxQuestionCount, cfg.Quiz.MaxSourceChars),
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Get().Warn("Redis unavailable, using in-memory scratch cache", zap.Error(err))
		c.Cache = adapter.NewMemoryCacheAdapter()
	} else {
		logger.Get().Info("Connected to Redis", zap.String("address", cfg.Redis.Address))
		c.redis = redisClient
		c.Cache = adapter.NewRedisCacheAdapter(redisClient)
	}

	completer := bo.completer
	if completer == nil {
		completer, err = llm.NewCompleter(ctx, cfg.LLM)
		if err != nil {
			c.Close()
			return nil, err
		}
	}
	generateModel, analyzeModel := llm.ResolveModels(cfg.LLM)
	gateway := quizgen.NewGateway(completer,
		quizgen.WithRetryPolicy(quizgen.RetryPolicy{
			MaxAttempts: cfg.LLM.Retry.MaxAttempts,
			InitialWait: cfg.LLM.Retry.InitialWait,
			MaxWait:     cfg.LLM.Retry.MaxWait,
		}),
		quizgen.WithMaxSourceChars(cfg.Quiz.MaxSourceChars),
		quizgen.WithModels(generateModel, analyzeModel),
	)

	quizRepo := repository.NewQuizDatabaseAdapter(db)
	flashcardRepo := repository.NewFlashcardDatabaseAdapter(db)
	resultRepo := repository.NewResultDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)
	scratch := service.NewScratchStore(c.Cache, cfg.Redis.ScratchTTL)

	c.Quizzes = service.NewQuizService(quizRepo, gateway, scratch, txManager, cfg.Quiz)
	c.Sessions = service.NewSessionService(c.Quizzes, resultRepo, cfg.Quiz.DefaultTimeLimit)
	c.Analysis = service.NewAnalysisService(c.Sessions, gateway, scratch)
	c.Study = service.NewStudyService(quizRepo, flashcardRepo, resultRepo, cfg.Quiz)

	logger.Get().Info("Services initialized",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("generate_model", generateModel),
		zap.String("db_driver", cfg.DB.Driver))
	return c, nil
}

// Close stops session timers and releases connections.
func (c *Container) Close() {
	if c.Sessions != nil {
		c.Sessions.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			logger.Get().Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Get().Warn("Failed to close database", zap.Error(err))
		}
	}
}
