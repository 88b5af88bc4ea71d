package main

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-generation-service/internal/config"
	"github.com/SAP-F-2025/exam-generation-service/internal/llm"
	"github.com/SAP-F-2025/exam-generation-service/internal/pipeline"
	"github.com/SAP-F-2025/exam-generation-service/internal/utils"
	"github.com/SAP-F-2025/exam-generation-service/internal/vectorstore"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// core holds what every command needs: configuration, loggers and the
// vector store.
type core struct {
	cfg    *config.Config
	logger utils.Logger
	zap    *zap.Logger
	store  vectorstore.Store
}

func newCore(ctx context.Context) (*core, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	zapLogger, err := newZapLogger(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating zap logger: %w", err)
	}

	embedder, err := llm.NewEmbedder(cfg.VectorStore, cfg.LLM.APIKey)
	if err != nil {
		return nil, err
	}

	store, err := vectorstore.NewStore(ctx, cfg.VectorStore, embedder, zapLogger)
	if err != nil {
		return nil, err
	}

	return &core{
		cfg:    cfg,
		logger: utils.NewLogger(cfg.Environment),
		zap:    zapLogger,
		store:  store,
	}, nil
}

func (c *core) Close() {
	if err := c.store.Close(); err != nil {
		c.logger.LogError(err, "Failed to close vector store")
	}
	_ = c.zap.Sync()
}

func newZapLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newGenerator picks the structured tool-call client for OpenAI when asked
// for, and the langchaingo model otherwise. Both go through the rate limiter.
func newGenerator(cfg config.LLMConfig) (pipeline.Generator, error) {
	var generator pipeline.Generator
	if cfg.Provider == "openai" && cfg.StructuredMode {
		generator = llm.NewOpenAIGenerator(cfg.APIKey, cfg.BaseURL, cfg.Model)
	} else {
		model, err := llm.NewLanguageModel(cfg)
		if err != nil {
			return nil, err
		}
		generator = llm.NewLangChainGenerator(model)
	}
	return llm.WithRateLimit(generator, cfg.RateLimit, cfg.RateBurst), nil
}

func newScorer(cfg config.LLMConfig, generator pipeline.Generator) (pipeline.RelevanceScorer, error) {
	switch cfg.ScorerProvider {
	case "llm", "":
		return llm.NewScorer(generator), nil
	case "lexical":
		return pipeline.NewLexicalScorer(), nil
	default:
		return nil, fmt.Errorf("%w: scorer %q", llm.ErrUnknownProvider, cfg.ScorerProvider)
	}
}

func pipelineConfig(cfg config.PipelineConfig) pipeline.Config {
	return pipeline.Config{
		K:    cfg.RetrievalK,
		TopN: cfg.RerankTopN,
		Filter: pipeline.FilterConfig{
			MinWords:    cfg.FilterMinWords,
			MaxDotRatio: cfg.FilterMaxDotRatio,
		},
		NormalizeMinWords: cfg.NormalizeMinWords,
		RerankWorkers:     cfg.RerankWorkers,
		Synthesizer: pipeline.SynthesizerConfig{
			Workers:     cfg.SynthWorkers,
			CallTimeout: cfg.SynthCallTimeout,
		},
		AllowPartial: cfg.AllowPartialExams,
	}
}

// newPipeline wires the generation pipeline over the core's store. reg may
// be nil to skip metrics.
func (c *core) newPipeline(reg prometheus.Registerer) (*pipeline.Pipeline, error) {
	generator, err := newGenerator(c.cfg.LLM)
	if err != nil {
		return nil, err
	}

	scorer, err := newScorer(c.cfg.LLM, generator)
	if err != nil {
		return nil, err
	}

	guidance, err := pipeline.LoadGuidance(c.cfg.Pipeline.GuidanceFile)
	if err != nil {
		return nil, err
	}
	builder := pipeline.NewRequestBuilder(guidance, c.cfg.Pipeline.PromptLanguage)

	var metrics *pipeline.Metrics
	if reg != nil {
		metrics = pipeline.NewMetrics(reg)
	}

	return pipeline.New(c.store, scorer, generator, builder, pipelineConfig(c.cfg.Pipeline), c.logger, metrics), nil
}
