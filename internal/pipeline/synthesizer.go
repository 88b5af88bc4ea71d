package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/utils"
)

type SynthesizerConfig struct {
	// Workers bounds concurrent generation calls.
	Workers int
	// CallTimeout bounds a single generation call. Zero means no limit.
	CallTimeout time.Duration
}

func DefaultSynthesizerConfig() SynthesizerConfig {
	return SynthesizerConfig{
		Workers:     4,
		CallTimeout: 60 * time.Second,
	}
}

// Synthesizer generates one question per chunk on a bounded worker pool and
// returns them in chunk order.
type Synthesizer struct {
	builder   *RequestBuilder
	generator Generator
	config    SynthesizerConfig
	logger    utils.Logger
	metrics   *Metrics
}

func NewSynthesizer(builder *RequestBuilder, generator Generator, config SynthesizerConfig, logger utils.Logger, metrics *Metrics) *Synthesizer {
	return &Synthesizer{
		builder:   builder,
		generator: generator,
		config:    config,
		logger:    logger,
		metrics:   metrics,
	}
}

// Synthesize uses the first requestedCount chunks. The returned questions
// are the successful ones in chunk order. When any chunk fails the error is
// a *SynthesisError naming every failed chunk.
func (s *Synthesizer) Synthesize(ctx context.Context, chunks []string, query, questionType string, requestedCount int, difficulty string) ([]models.Question, error) {
	if requestedCount <= 0 {
		return []models.Question{}, nil
	}
	if requestedCount < len(chunks) {
		chunks = chunks[:requestedCount]
	}

	results, errs := mapOrdered(ctx, chunks, s.config.Workers, func(ctx context.Context, index int, chunk string) (models.Question, error) {
		return s.generate(ctx, chunk, query, questionType, difficulty)
	})

	questions := make([]models.Question, 0, len(chunks))
	var failures []ChunkFailure
	for i, err := range errs {
		if err != nil {
			failures = append(failures, ChunkFailure{Index: i, Err: err})
			s.metrics.questionFailed(questionType, err)
			s.logger.WarnContext(ctx, "Question generation failed", "chunk_index", i, "error", err)
			continue
		}
		questions = append(questions, results[i])
		s.metrics.questionGenerated(results[i].Type)
	}

	if len(failures) > 0 {
		return questions, &SynthesisError{Attempted: len(chunks), Failures: failures}
	}
	return questions, nil
}

func (s *Synthesizer) generate(ctx context.Context, chunk, query, questionType, difficulty string) (models.Question, error) {
	req, err := NewGenerationRequest(chunk, query, questionType, difficulty)
	if err != nil {
		return models.Question{}, err
	}

	prompt, err := s.builder.Build(req)
	if err != nil {
		return models.Question{}, err
	}

	callCtx := ctx
	if s.config.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.config.CallTimeout)
		defer cancel()
	}

	output, err := s.generator.Generate(callCtx, prompt)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return models.Question{}, fmt.Errorf("%w after %s: %w", ErrGenerationTimeout, s.config.CallTimeout, err)
		}
		return models.Question{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	return models.Question{
		Type:          req.QuestionType,
		SourceContent: chunk,
		QuestionData:  ExtractQuestionData(output),
	}, nil
}

// ExtractQuestionData passes model output through as JSON. An embedded JSON
// object is used as is; anything else is kept as a JSON string. Nothing is
// repaired.
func ExtractQuestionData(output string) json.RawMessage {
	trimmed := strings.TrimSpace(output)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		candidate := trimmed[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate)
		}
	}

	raw, _ := json.Marshal(output)
	return raw
}
