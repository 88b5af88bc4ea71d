package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SAP-F-2025/exam-generation-service/internal/cache"
	"github.com/SAP-F-2025/exam-generation-service/internal/events"
	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/pipeline"
	"github.com/SAP-F-2025/exam-generation-service/internal/repositories"
	"github.com/SAP-F-2025/exam-generation-service/internal/validator"
)

type ExamServiceConfig struct {
	K               int
	TopN            int
	MaxQuestions    int
	HistoryCacheTTL time.Duration
}

type examService struct {
	generator ExamGenerator
	exams     repositories.ExamRepository
	cache     cache.CacheService
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *ServiceLogger
	config    ExamServiceConfig
}

// NewExamService wires the exam service. cache and publisher may be nil.
func NewExamService(
	generator ExamGenerator,
	exams repositories.ExamRepository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *ServiceLogger,
	config ExamServiceConfig,
) ExamService {
	return &examService{
		generator: generator,
		exams:     exams,
		cache:     cacheService,
		publisher: publisher,
		validator: validator,
		logger:    logger,
		config:    config,
	}
}

// GenerateExam runs the pipeline and stores the result, empty or not.
func (s *examService) GenerateExam(ctx context.Context, req *GenerateExamRequest, userID uint) (resp *GenerateExamResponse, err error) {
	op := s.logger.WithOperation(ctx, "generate_exam", userID)
	defer func() {
		var examID uint
		if resp != nil {
			examID = resp.ExamID
		}
		op.LogResult(examID, "exam", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if s.config.MaxQuestions > 0 && req.QuestionNbr > s.config.MaxQuestions {
		return nil, fmt.Errorf("%w: %d requested, at most %d allowed", ErrTooManyQuestions, req.QuestionNbr, s.config.MaxQuestions)
	}

	generated, err := s.generator.Run(ctx, pipeline.Request{
		Query:         req.Query,
		QuestionType:  req.QuestionType,
		QuestionCount: req.QuestionNbr,
		Difficulty:    req.Difficulty,
		K:             s.config.K,
		TopN:          s.config.TopN,
	})
	if err != nil {
		s.publish(ctx, events.NewExamFailedEvent(events.ExamFailedEvent{
			UserID:       userID,
			Query:        req.Query,
			QuestionType: req.QuestionType,
			Reason:       err.Error(),
			FailedAt:     time.Now(),
		}))
		if IsValidation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrGenerationUpstream, err)
	}

	questions, err := json.Marshal(generated.Questions)
	if err != nil {
		return nil, fmt.Errorf("encoding questions: %w", err)
	}

	questionType, _ := models.ParseQuestionType(req.QuestionType)
	exam := &models.Exam{
		UserID:         userID,
		Query:          req.Query,
		QuestionType:   questionType,
		Difficulty:     models.NormalizeDifficulty(req.Difficulty),
		RequestedCount: req.QuestionNbr,
		Questions:      questions,
		Answers:        []byte("{}"),
		FailedCount:    generated.Failed,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("saving exam: %w", err)
	}

	op.LogAudit(AuditEventCreate, exam.ID, "exam", map[string]interface{}{
		"questions": len(generated.Questions),
		"failed":    generated.Failed,
	})
	s.invalidateHistory(ctx, userID)
	s.publish(ctx, events.NewExamGeneratedEvent(events.ExamGeneratedEvent{
		ExamID:         exam.ID,
		UserID:         userID,
		Query:          exam.Query,
		QuestionType:   string(exam.QuestionType),
		Difficulty:     string(exam.Difficulty),
		RequestedCount: exam.RequestedCount,
		QuestionCount:  len(generated.Questions),
		FailedCount:    generated.Failed,
		GeneratedAt:    exam.CreatedAt,
	}))

	return &GenerateExamResponse{
		ExamID:    exam.ID,
		Questions: generated.Questions,
		Failed:    generated.Failed,
	}, nil
}

// GetHistory returns the user's most recent exams, newest first.
func (s *examService) GetHistory(ctx context.Context, userID uint) (resp *ExamHistoryResponse, err error) {
	op := s.logger.WithOperation(ctx, "exam_history", userID)
	defer func() { op.LogResult(0, "exam", err) }()

	key := cache.ExamHistoryKey(userID)
	if s.cache != nil {
		var cached ExamHistoryResponse
		cacheErr := s.cache.Get(ctx, key, &cached)
		if cacheErr == nil {
			return &cached, nil
		}
		if !errors.Is(cacheErr, cache.ErrCacheMiss) {
			s.logger.LogDebug(ctx, "history cache unavailable")
		}
	}

	exams, err := s.exams.ListByUser(ctx, userID, repositories.ExamFilters{Limit: repositories.MaxHistoryLimit})
	if err != nil {
		return nil, fmt.Errorf("listing exams: %w", err)
	}

	resp = &ExamHistoryResponse{Exams: make([]ExamHistoryItem, len(exams))}
	for i, exam := range exams {
		resp.Exams[i] = toHistoryItem(exam)
	}

	if s.cache != nil {
		// History is still served when the cache write fails.
		_ = s.cache.Set(ctx, key, resp, s.config.HistoryCacheTTL)
	}
	return resp, nil
}

// GetExam returns one of the user's exams.
func (s *examService) GetExam(ctx context.Context, examID, userID uint) (*models.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("loading exam: %w", err)
	}
	if exam.UserID != userID {
		return nil, ErrExamAccessDenied
	}
	return exam, nil
}

func toHistoryItem(exam *models.Exam) ExamHistoryItem {
	questions := json.RawMessage(exam.Questions)
	if len(questions) == 0 {
		questions = json.RawMessage("[]")
	}
	answers := json.RawMessage(exam.Answers)
	if len(answers) == 0 {
		answers = json.RawMessage("{}")
	}

	return ExamHistoryItem{
		ID:             strconv.FormatUint(uint64(exam.ID), 10),
		UserID:         strconv.FormatUint(uint64(exam.UserID), 10),
		Query:          exam.Query,
		QuestionType:   string(exam.QuestionType),
		Difficulty:     string(exam.Difficulty),
		RequestedCount: exam.RequestedCount,
		Questions:      questions,
		Answers:        answers,
		CreatedAt:      exam.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *examService) invalidateHistory(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ExamHistoryKey(userID)); err != nil {
		s.logger.LogDebug(ctx, "failed to invalidate history cache")
	}
}

// publish is best effort; a broker outage must not fail the request.
func (s *examService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogDebug(ctx, "failed to publish event")
	}
}
