package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/exam-generation-service/internal/errors"
	"github.com/SAP-F-2025/exam-generation-service/internal/pipeline"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// Exam specific errors
	ErrExamNotFound       = errors.New("exam not found")
	ErrExamAccessDenied   = errors.New("access denied to exam")
	ErrTooManyQuestions   = errors.New("too many questions requested")
	ErrGenerationUpstream = errors.New("exam generation failed upstream")

	// Auth specific errors
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInactiveUser       = errors.New("user account is inactive")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInactiveUser)
}

// IsForbidden checks if the caller is known but may not touch the resource
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrExamAccessDenied)
}

// IsValidation checks if error represents a validation failure. An unknown
// question type reaching the pipeline is a caller error too.
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrTooManyQuestions) ||
		errors.Is(err, pipeline.ErrEmptyQuery) ||
		errors.Is(err, pipeline.ErrInvalidQuestionType) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUserExists)
}

// IsUpstream checks if a model or vector store call failed
func IsUpstream(err error) bool {
	return errors.Is(err, ErrGenerationUpstream) ||
		errors.Is(err, pipeline.ErrRetrievalFailed) ||
		errors.Is(err, pipeline.ErrRerankFailed) ||
		errors.Is(err, pipeline.ErrGenerationFailed) ||
		errors.Is(err, pipeline.ErrGenerationTimeout)
}
