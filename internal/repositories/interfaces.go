package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
)

// MaxHistoryLimit caps how many exams a history listing returns.
const MaxHistoryLimit = 100

// ===== SHARED FILTER STRUCTS =====

type ExamFilters struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ===== REPOSITORIES =====

// ExamRepository stores generated exams. Listings are newest first.
type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	ListByUser(ctx context.Context, userID uint, filters ExamFilters) ([]*models.Exam, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// UserRepository stores local accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id uint, loginTime time.Time) error
}
