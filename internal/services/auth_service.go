package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-generation-service/internal/auth"
	"github.com/SAP-F-2025/exam-generation-service/internal/events"
	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/repositories"
	"github.com/SAP-F-2025/exam-generation-service/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

const tokenTypeBearer = "bearer"

type authService struct {
	users     repositories.UserRepository
	tokens    *auth.JWTManager
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *ServiceLogger
}

func NewAuthService(
	users repositories.UserRepository,
	tokens *auth.JWTManager,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *ServiceLogger,
) AuthService {
	return &authService{
		users:     users,
		tokens:    tokens,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

func (s *authService) Signup(ctx context.Context, req *SignupRequest) (resp *UserResponse, err error) {
	op := s.logger.WithOperation(ctx, "signup", 0)
	defer func() { op.LogResult(0, "user", err) }()

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("checking user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hashed),
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if s.publisher != nil {
		event := events.NewUserRegisteredEvent(events.UserRegisteredEvent{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.LogDebug(ctx, "failed to publish user registered event")
		}
	}

	return &UserResponse{Username: user.Username, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (resp *TokenResponse, err error) {
	op := s.logger.WithOperation(ctx, "login", 0)
	defer func() { op.LogResult(0, "user", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.LogDebug(ctx, "failed to record last login")
	}
	s.logger.LogAuditEvent(ctx, AuditEvent{
		Type:         AuditEventLogin,
		UserID:       user.ID,
		ResourceID:   user.ID,
		ResourceType: "user",
		Action:       "login",
		Timestamp:    now,
	})

	return &TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
	}, nil
}
