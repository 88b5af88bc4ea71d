package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/repositories"
	"gorm.io/gorm"
)

type ExamPostgreSQL struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{db: db}
}

// Create persists an exam. Missing questions or answers are stored as empty
// JSON values.
func (e *ExamPostgreSQL) Create(ctx context.Context, exam *models.Exam) error {
	if len(exam.Questions) == 0 {
		exam.Questions = []byte("[]")
	}
	if len(exam.Answers) == 0 {
		exam.Answers = []byte("{}")
	}

	if err := e.db.WithContext(ctx).Create(exam).Error; err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	return nil
}

// GetByID retrieves an exam by ID
func (e *ExamPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	err := e.db.WithContext(ctx).First(&exam, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// ListByUser returns the user's exams, newest first, capped at
// MaxHistoryLimit.
func (e *ExamPostgreSQL) ListByUser(ctx context.Context, userID uint, filters repositories.ExamFilters) ([]*models.Exam, error) {
	limit := filters.Limit
	if limit <= 0 || limit > repositories.MaxHistoryLimit {
		limit = repositories.MaxHistoryLimit
	}

	var exams []*models.Exam
	err := e.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&exams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}

	return exams, nil
}

func (e *ExamPostgreSQL) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Exam{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
