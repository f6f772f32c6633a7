// Package app wires configuration into a ready quote pipeline.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"

	"github.com/anshumaan69/tenderflow/config"
	"github.com/anshumaan69/tenderflow/internal/catalog"
	"github.com/anshumaan69/tenderflow/internal/domain"
	"github.com/anshumaan69/tenderflow/internal/infrastructure/archive"
	"github.com/anshumaan69/tenderflow/internal/infrastructure/awsclient"
	"github.com/anshumaan69/tenderflow/internal/infrastructure/bedrock"
	"github.com/anshumaan69/tenderflow/internal/infrastructure/cache"
	"github.com/anshumaan69/tenderflow/internal/infrastructure/document"
	"github.com/anshumaan69/tenderflow/internal/infrastructure/embedding"
	"github.com/anshumaan69/tenderflow/internal/infrastructure/openrouter"
	"github.com/anshumaan69/tenderflow/internal/usecase"
)

// App holds the wired components shared by the server and the CLI
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Catalog *catalog.Catalog
	Quotes  *usecase.QuoteService
	Archive domain.QuoteArchive // nil when archiving is disabled

	closers []func() error
}

// Build creates every adapter selected by cfg and the quote service on top of them
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	inventory, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	a.Catalog = inventory

	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		c, err := awsclient.LoadConfig(ctx, awsclient.Options{
			Region:          cfg.AWS.Region,
			Endpoint:        cfg.AWS.Endpoint,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
		})
		if err != nil {
			return aws.Config{}, err
		}
		awsCfg = &c
		return c, nil
	}

	strategy, err := a.buildStrategy(ctx, cfg, loadAWS)
	if err != nil {
		a.Close()
		return nil, err
	}

	reqExtractor, err := buildRequirementExtractor(cfg, logger, loadAWS)
	if err != nil {
		a.Close()
		return nil, err
	}

	mode, err := usecase.ParseDetectionMode(cfg.Services.DetectionMode)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Archive.Enabled {
		c, err := loadAWS()
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Archive = archive.NewDynamoArchive(archive.NewDynamoClient(c), cfg.Archive.Table)
	}

	matcher := usecase.NewMatchingService(strategy, usecase.MatchConfig{
		Policy: usecase.MatchPolicy{
			PartialThreshold: cfg.Matching.PartialThreshold,
			PerfectThreshold: cfg.Matching.PerfectThreshold,
		},
		TopN:        cfg.Matching.TopN,
		Concurrency: cfg.Matching.Concurrency,
		Logger:      logger,
	})

	a.Quotes = usecase.NewQuoteService(
		inventory,
		document.NewExtractor(cfg.Document.MaxPages, logger),
		reqExtractor,
		matcher,
		usecase.NewServiceDetector(mode),
		usecase.QuoteServiceConfig{
			ModelTimeout:     cfg.LLM.Timeout,
			MaxDocumentChars: cfg.LLM.MaxDocumentChars,
			Logger:           logger,
		},
	)

	logger.Info().
		Str("strategy", strategy.Name()).
		Str("llm_provider", cfg.LLM.Provider).
		Str("detection_mode", string(mode)).
		Int("products", len(inventory.Products())).
		Bool("archive", a.Archive != nil).
		Msg("quote pipeline ready")

	return a, nil
}

// Close releases caches and connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) buildStrategy(ctx context.Context, cfg *config.Config, loadAWS func() (aws.Config, error)) (usecase.SimilarityStrategy, error) {
	if cfg.Matching.Strategy != usecase.StrategyVector {
		return usecase.NewSimilarityStrategy(cfg.Matching.Strategy, nil, nil, usecase.VectorConfig{})
	}

	embedder, err := buildEmbedder(cfg, a.Logger, loadAWS)
	if err != nil {
		return nil, err
	}

	embeddingCache, err := a.buildCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return usecase.NewSimilarityStrategy(cfg.Matching.Strategy, embedder, embeddingCache, usecase.VectorConfig{
		Timeout:  cfg.Embedding.Timeout,
		CacheTTL: cfg.Cache.TTL,
		Logger:   a.Logger,
	})
}

func (a *App) buildCache(ctx context.Context, cfg *config.Config) (domain.EmbeddingCache, error) {
	if cfg.Cache.Type == "redis" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.Cache.RedisURL})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, rc.Close)
		return rc, nil
	}

	mc := cache.NewMemoryCache(cfg.Cache.MaxEntries)
	a.closers = append(a.closers, mc.Close)
	return mc, nil
}

func buildEmbedder(cfg *config.Config, logger zerolog.Logger, loadAWS func() (aws.Config, error)) (domain.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "hash":
		return embedding.NewHashEmbedder(cfg.Embedding.Dimension), nil
	case "bedrock":
		c, err := loadAWS()
		if err != nil {
			return nil, err
		}
		model := cfg.Embedding.Model
		if model == openrouter.DefaultEmbeddingModel {
			model = ""
		}
		return bedrock.NewEmbedder(bedrock.NewRuntimeClient(c), model), nil
	case "openrouter", "":
		client := openrouter.NewClient(openrouter.Config{
			APIKey:            cfg.Embedding.APIKey,
			BaseURL:           cfg.Embedding.BaseURL,
			Timeout:           cfg.Embedding.Timeout,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
			AppName:           "TenderFlow",
			Logger:            logger,
		})
		return openrouter.NewEmbedder(client, cfg.Embedding.Model, cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

func buildRequirementExtractor(cfg *config.Config, logger zerolog.Logger, loadAWS func() (aws.Config, error)) (domain.RequirementExtractor, error) {
	switch cfg.LLM.Provider {
	case "bedrock":
		c, err := loadAWS()
		if err != nil {
			return nil, err
		}
		model := cfg.LLM.Model
		if model == openrouter.DefaultChatModel {
			model = ""
		}
		return bedrock.NewExtractor(bedrock.NewRuntimeClient(c), model, cfg.LLM.MaxTokens), nil
	case "openrouter", "":
		client := openrouter.NewClient(openrouter.Config{
			APIKey:            cfg.LLM.APIKey,
			BaseURL:           cfg.LLM.BaseURL,
			Timeout:           cfg.LLM.Timeout,
			RequestsPerSecond: cfg.LLM.RequestsPerSecond,
			AppName:           "TenderFlow",
			Logger:            logger,
		})
		return openrouter.NewChatExtractor(client, cfg.LLM.Model, cfg.LLM.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
