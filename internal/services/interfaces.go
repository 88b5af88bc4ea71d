package services

import (
	"context"
	"encoding/json"
	"io"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/pipeline"
)

// ===== SERVICE INTERFACES =====

type ExamService interface {
	GenerateExam(ctx context.Context, req *GenerateExamRequest, userID uint) (*GenerateExamResponse, error)
	GetHistory(ctx context.Context, userID uint) (*ExamHistoryResponse, error)
	GetExam(ctx context.Context, examID, userID uint) (*models.Exam, error)
}

type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error)
}

type ExportService interface {
	ExportExam(ctx context.Context, examID, userID uint, w io.Writer) error
}

// ExamGenerator runs the retrieval and generation pipeline.
type ExamGenerator interface {
	Run(ctx context.Context, req pipeline.Request) (*models.GeneratedExam, error)
}

// ===== REQUEST / RESPONSE TYPES =====

type GenerateExamRequest struct {
	Query        string `json:"query" validate:"required,max=500"`
	QuestionType string `json:"question_type" validate:"required,question_type"`
	QuestionNbr  int    `json:"question_nbr" validate:"required,gt=0"`
	Difficulty   string `json:"difficulty" validate:"required,difficulty_level"`
}

type GenerateExamResponse struct {
	ExamID    uint              `json:"-"`
	Questions []models.Question `json:"questions"`
	Failed    int               `json:"failed,omitempty"`
}

// ExamHistoryItem mirrors a stored exam with string ids and an RFC 3339
// creation time.
type ExamHistoryItem struct {
	ID             string          `json:"_id"`
	UserID         string          `json:"user_id"`
	Query          string          `json:"query"`
	QuestionType   string          `json:"question_type,omitempty"`
	Difficulty     string          `json:"difficulty,omitempty"`
	RequestedCount int             `json:"requested_count"`
	Questions      json.RawMessage `json:"questions"`
	Answers        json.RawMessage `json:"answers"`
	CreatedAt      string          `json:"created_at"`
}

type ExamHistoryResponse struct {
	Exams []ExamHistoryItem `json:"exams"`
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
