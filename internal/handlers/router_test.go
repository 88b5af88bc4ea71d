package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SAP-F-2025/exam-generation-service/internal/auth"
	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/pipeline"
	"github.com/SAP-F-2025/exam-generation-service/internal/services"
	"github.com/SAP-F-2025/exam-generation-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validToken = "valid-token"

type routerFixture struct {
	router   *gin.Engine
	exams    *MockExamService
	export   *MockExportService
	auth     *MockAuthService
	verifier *MockTokenVerifier
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &routerFixture{
		exams:    new(MockExamService),
		export:   new(MockExportService),
		auth:     new(MockAuthService),
		verifier: new(MockTokenVerifier),
	}
	f.verifier.On("Verify", mock.Anything, validToken).Return(&auth.Identity{UserID: 7, Username: "alice"}, nil)
	f.verifier.On("Verify", mock.Anything, "expired").Return(nil, auth.ErrExpiredToken)
	f.verifier.On("Verify", mock.Anything, mock.Anything).Return(nil, auth.ErrInvalidToken)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	pipeline.NewMetrics(registry)

	manager := NewHandlerManager(f.exams, f.export, f.auth, f.verifier, registry, utils.NewNopLogger())
	f.router = manager.NewRouter()
	return f
}

func (f *routerFixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))

	w = f.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestAuthMiddleware(t *testing.T) {
	f := newRouterFixture(t)
	f.exams.On("GetHistory", mock.Anything, uint(7)).Return(&services.ExamHistoryResponse{Exams: []services.ExamHistoryItem{}}, nil)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantBody: "Not authenticated"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: "Not authenticated"},
		{name: "invalid token", header: "Bearer garbage", wantStatus: http.StatusUnauthorized, wantBody: "Could not validate credentials"},
		{name: "expired token", header: "Bearer expired", wantStatus: http.StatusUnauthorized, wantBody: "Token has expired"},
		{name: "valid token", header: "Bearer " + validToken, wantStatus: http.StatusOK, wantBody: `"exams":[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/Exam/exam_history", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestGenerateExamHandler(t *testing.T) {
	f := newRouterFixture(t)

	f.exams.On("GenerateExam", mock.Anything, &services.GenerateExamRequest{
		Query:        "recursion",
		QuestionType: "mcq",
		QuestionNbr:  1,
		Difficulty:   "beginner",
	}, uint(7)).Return(&services.GenerateExamResponse{
		ExamID: 99,
		Questions: []models.Question{
			{Type: models.QuestionMCQ, SourceContent: "chunk", QuestionData: json.RawMessage(`{"question":"What is recursion?"}`)},
		},
	}, nil)

	w := f.do(http.MethodPost, "/Exam/generate-exam",
		`{"query":"recursion","question_type":"mcq","question_nbr":1,"difficulty":"beginner"}`, validToken)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"questions":[{"type":"mcq","source_content":"chunk","question_data":{"question":"What is recursion?"}}]}`, w.Body.String())
}

func TestGenerateExamHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{name: "malformed json", body: `{"query":`, wantStatus: http.StatusBadRequest},
		{name: "validation", body: `{"query":"","question_type":"mcq","difficulty":"beginner"}`, serviceErr: services.ValidationErrors{{Field: "query", Message: "query is required"}}, wantStatus: http.StatusBadRequest},
		{name: "too many questions", body: `{"query":"q","question_type":"mcq","question_nbr":500,"difficulty":"beginner"}`, serviceErr: services.ErrTooManyQuestions, wantStatus: http.StatusBadRequest},
		{name: "upstream", body: `{"query":"q","question_type":"mcq","difficulty":"beginner"}`, serviceErr: fmt.Errorf("%w: %w", services.ErrGenerationUpstream, pipeline.ErrGenerationTimeout), wantStatus: http.StatusBadGateway},
		{name: "internal", body: `{"query":"q","question_type":"mcq","difficulty":"beginner"}`, serviceErr: fmt.Errorf("saving exam: disk full"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			if tt.serviceErr != nil {
				f.exams.On("GenerateExam", mock.Anything, mock.Anything, uint(7)).Return(nil, tt.serviceErr)
			}

			w := f.do(http.MethodPost, "/Exam/generate-exam", tt.body, validToken)
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestExportExamHandler(t *testing.T) {
	f := newRouterFixture(t)

	f.export.On("ExportExam", mock.Anything, uint(3), uint(7), mock.Anything).
		Run(func(args mock.Arguments) {
			_, _ = args.Get(3).(io.Writer).Write([]byte("xlsx-bytes"))
		}).Return(nil)
	f.export.On("ExportExam", mock.Anything, uint(4), uint(7), mock.Anything).Return(services.ErrExamAccessDenied)
	f.export.On("ExportExam", mock.Anything, uint(5), uint(7), mock.Anything).Return(services.ErrExamNotFound)

	w := f.do(http.MethodGet, "/Exam/3/export", "", validToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "exam-3.xlsx")
	assert.Equal(t, "xlsx-bytes", w.Body.String())

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/Exam/4/export", "", validToken).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/Exam/5/export", "", validToken).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/Exam/abc/export", "", validToken).Code)
}

func TestSignupHandler(t *testing.T) {
	f := newRouterFixture(t)

	f.auth.On("Signup", mock.Anything, mock.MatchedBy(func(req *services.SignupRequest) bool {
		return req.Username == "alice"
	})).Return(&services.UserResponse{Username: "alice", Email: "alice@example.com"}, nil)
	f.auth.On("Signup", mock.Anything, mock.Anything).Return(nil, services.ErrUserExists)

	w := f.do(http.MethodPost, "/auth/signup", `{"username":"alice","email":"alice@example.com","password":"password1"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"username":"alice","email":"alice@example.com"}`, w.Body.String())

	w = f.do(http.MethodPost, "/auth/signup", `{"username":"bob","email":"bob@example.com","password":"password1"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginHandler(t *testing.T) {
	f := newRouterFixture(t)

	f.auth.On("Login", mock.Anything, &services.LoginRequest{Username: "alice", Password: "right"}).
		Return(&services.TokenResponse{AccessToken: "tok", TokenType: "bearer", ExpiresIn: 1800}, nil)
	f.auth.On("Login", mock.Anything, &services.LoginRequest{Username: "alice", Password: "wrong"}).
		Return(nil, services.ErrInvalidCredentials)
	f.auth.On("Login", mock.Anything, &services.LoginRequest{Username: "ghost", Password: "any"}).
		Return(nil, services.ErrUserNotFound)

	w := f.do(http.MethodPost, "/auth/login", `{"username":"alice","password":"right"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access_token":"tok","token_type":"bearer","expires_in":1800}`, w.Body.String())

	w = f.do(http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid password.")

	w = f.do(http.MethodPost, "/auth/login", `{"username":"ghost","password":"any"}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found.")
}

func TestCORSPreflight(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/Exam/generate-exam", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "authorization, content-type")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "authorization, content-type", w.Header().Get("Access-Control-Allow-Headers"))
}
