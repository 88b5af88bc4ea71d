package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/exam-generation-service/internal/services"
	"github.com/SAP-F-2025/exam-generation-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExamHandler struct {
	BaseHandler
	examService   services.ExamService
	exportService services.ExportService
}

func NewExamHandler(examService services.ExamService, exportService services.ExportService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler:   NewBaseHandler(logger),
		examService:   examService,
		exportService: exportService,
	}
}

// GenerateExam generates and stores an exam for the caller
// @Summary Generate exam
// @Tags exams
// @Accept json
// @Produce json
// @Param request body services.GenerateExamRequest true "Generation parameters"
// @Success 200 {object} services.GenerateExamResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /Exam/generate-exam [post]
func (h *ExamHandler) GenerateExam(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.GenerateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Generating exam", "question_type", req.QuestionType, "question_nbr", req.QuestionNbr)

	resp, err := h.examService.GenerateExam(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Exam generated", "exam_id", resp.ExamID, "questions", len(resp.Questions), "failed", resp.Failed)
	c.JSON(http.StatusOK, resp)
}

// GetExamHistory lists the caller's most recent exams
// @Summary Exam history
// @Tags exams
// @Produce json
// @Success 200 {object} services.ExamHistoryResponse
// @Failure 401 {object} ErrorResponse
// @Router /Exam/exam_history [get]
func (h *ExamHandler) GetExamHistory(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.examService.GetHistory(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportExam downloads an exam as an xlsx workbook
// @Summary Export exam
// @Tags exams
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Exam ID"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /Exam/{id}/export [get]
func (h *ExamHandler) ExportExam(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	examID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	// Buffered so a failed export can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.exportService.ExportExam(c.Request.Context(), examID, userID, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="exam-%d.xlsx"`, examID))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
