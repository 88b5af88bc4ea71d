package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/utils"
)

const (
	DefaultK    = 25
	DefaultTopN = 5
)

type Config struct {
	K                 int
	TopN              int
	Filter            FilterConfig
	NormalizeMinWords int
	RerankWorkers     int
	Synthesizer       SynthesizerConfig
	// AllowPartial returns the questions that did generate when some chunks
	// failed, instead of failing the run.
	AllowPartial bool
}

func DefaultConfig() Config {
	return Config{
		K:                 DefaultK,
		TopN:              DefaultTopN,
		Filter:            DefaultFilterConfig(),
		NormalizeMinWords: defaultNormalizeMinWords,
		RerankWorkers:     4,
		Synthesizer:       DefaultSynthesizerConfig(),
	}
}

// Request is one exam generation call. Zero K or TopN fall back to the
// pipeline configuration.
type Request struct {
	Query         string
	QuestionType  string
	QuestionCount int
	Difficulty    string
	K             int
	TopN          int
}

// Pipeline runs retrieve, filter, rerank, truncate, normalize and
// synthesize, in that order.
type Pipeline struct {
	store       DocumentStore
	filter      *RelevanceFilter
	reranker    *Reranker
	normalizer  *Normalizer
	synthesizer *Synthesizer
	config      Config
	logger      utils.Logger
	metrics     *Metrics
}

// New wires a pipeline from its collaborators. builder may be nil to use the
// default prompts; metrics may be nil.
func New(store DocumentStore, scorer RelevanceScorer, generator Generator, builder *RequestBuilder, config Config, logger utils.Logger, metrics *Metrics) *Pipeline {
	if builder == nil {
		builder = NewRequestBuilder(nil, "")
	}

	return &Pipeline{
		store:       store,
		filter:      NewRelevanceFilter(config.Filter),
		reranker:    NewReranker(scorer, config.RerankWorkers, logger),
		normalizer:  NewNormalizer(config.NormalizeMinWords),
		synthesizer: NewSynthesizer(builder, generator, config.Synthesizer, logger, metrics),
		config:      config,
		logger:      logger,
		metrics:     metrics,
	}
}

// Run generates an exam. Finding no usable content is not an error: the
// exam is simply empty. Collaborator failures are returned wrapped.
func (p *Pipeline) Run(ctx context.Context, req Request) (*models.GeneratedExam, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		p.metrics.run("error")
		return nil, ErrEmptyQuery
	}

	k := req.K
	if k <= 0 {
		k = p.config.K
	}
	topN := req.TopN
	if topN <= 0 {
		topN = p.config.TopN
	}

	logger := p.logger.With("query", query, "question_type", req.QuestionType, "difficulty", req.Difficulty)

	start := time.Now()
	passages, err := p.store.Search(ctx, query, k)
	if err != nil {
		p.metrics.run("error")
		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailed, err)
	}
	p.metrics.observeStage("retrieve", start, len(passages))
	if len(passages) == 0 {
		logger.InfoContext(ctx, "No passages retrieved")
		p.metrics.run("empty")
		return emptyExam(), nil
	}

	start = time.Now()
	filtered, rejected := p.filter.FilterWithReasons(passages)
	p.metrics.observeStage("filter", start, len(filtered))
	p.metrics.rejected(rejected)
	logger.DebugContext(ctx, "Filtered passages", "retrieved", len(passages), "kept", len(filtered))
	if len(filtered) == 0 {
		logger.InfoContext(ctx, "All retrieved passages were filtered out")
		p.metrics.run("empty")
		return emptyExam(), nil
	}

	start = time.Now()
	ranked, err := p.reranker.Rerank(ctx, query, filtered)
	if err != nil {
		p.metrics.run("error")
		return nil, err
	}
	top := TopN(ranked, topN)
	p.metrics.observeStage("rerank", start, len(top))

	start = time.Now()
	chunks := p.normalizer.Normalize(top)
	p.metrics.observeStage("normalize", start, len(chunks))
	logger.DebugContext(ctx, "Normalized chunks", "ranked", len(top), "chunks", len(chunks))
	if len(chunks) == 0 {
		p.metrics.run("empty")
		return emptyExam(), nil
	}

	start = time.Now()
	questions, err := p.synthesizer.Synthesize(ctx, chunks, query, req.QuestionType, req.QuestionCount, req.Difficulty)
	p.metrics.observeStage("synthesize", start, -1)

	exam := &models.GeneratedExam{Questions: questions}
	if err != nil {
		var synthErr *SynthesisError
		if !p.config.AllowPartial || len(questions) == 0 || !errors.As(err, &synthErr) {
			p.metrics.run("error")
			return nil, err
		}
		exam.Failed = len(synthErr.Failures)
		logger.WarnContext(ctx, "Returning partial exam", "questions", len(questions), "failed", exam.Failed)
		p.metrics.run("partial")
		return exam, nil
	}

	if len(questions) == 0 {
		p.metrics.run("empty")
	} else {
		p.metrics.run("success")
	}
	logger.InfoContext(ctx, "Exam generated", "questions", len(questions))
	return exam, nil
}

func emptyExam() *models.GeneratedExam {
	return &models.GeneratedExam{Questions: []models.Question{}}
}
