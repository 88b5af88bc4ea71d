package handlers

import (
	"context"
	"io"

	"github.com/SAP-F-2025/exam-generation-service/internal/auth"
	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/services"
	"github.com/stretchr/testify/mock"
)

type MockExamService struct {
	mock.Mock
}

func (m *MockExamService) GenerateExam(ctx context.Context, req *services.GenerateExamRequest, userID uint) (*services.GenerateExamResponse, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.GenerateExamResponse), args.Error(1)
}

func (m *MockExamService) GetHistory(ctx context.Context, userID uint) (*services.ExamHistoryResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExamHistoryResponse), args.Error(1)
}

func (m *MockExamService) GetExam(ctx context.Context, examID, userID uint) (*models.Exam, error) {
	args := m.Called(ctx, examID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportExam(ctx context.Context, examID, userID uint, w io.Writer) error {
	args := m.Called(ctx, examID, userID, w)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req *services.SignupRequest) (*services.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UserResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenResponse), args.Error(1)
}

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}

var (
	_ services.ExamService   = (*MockExamService)(nil)
	_ services.ExportService = (*MockExportService)(nil)
	_ services.AuthService   = (*MockAuthService)(nil)
	_ auth.TokenVerifier     = (*MockTokenVerifier)(nil)
)
