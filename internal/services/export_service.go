package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Questions"

var exportHeaders = []string{
	"Question Type", "Question Text", "Option A", "Option B", "Option C", "Option D",
	"Correct Answer", "Sample Answer", "Explanation", "Source Content",
}

type exportService struct {
	exams     ExamService
	validator *validator.Validator
	logger    *ServiceLogger
}

func NewExportService(exams ExamService, validator *validator.Validator, logger *ServiceLogger) ExportService {
	return &exportService{
		exams:     exams,
		validator: validator,
		logger:    logger,
	}
}

// ExportExam writes one of the user's exams as an xlsx workbook, one
// question per row.
func (s *exportService) ExportExam(ctx context.Context, examID, userID uint, w io.Writer) (err error) {
	op := s.logger.WithOperation(ctx, "export_exam", userID)
	defer func() { op.LogResult(examID, "exam", err) }()

	exam, err := s.exams.GetExam(ctx, examID, userID)
	if err != nil {
		return err
	}

	var questions []models.Question
	if len(exam.Questions) > 0 {
		if err := json.Unmarshal(exam.Questions, &questions); err != nil {
			return fmt.Errorf("decoding stored questions: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheetName, cell, header)
	}

	for rowIndex, question := range questions {
		for colIndex, value := range s.questionRow(question) {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(exportSheetName, cell, value)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}

	op.LogAudit(AuditEventExport, examID, "exam", map[string]interface{}{"questions": len(questions)})
	return nil
}

// questionRow flattens a question. Payloads that do not decode to the
// declared shape are written verbatim into the question text column.
func (s *exportService) questionRow(question models.Question) []string {
	row := make([]string, len(exportHeaders))
	row[0] = string(question.Type)
	row[9] = question.SourceContent

	switch question.Type {
	case models.QuestionMCQ:
		if content, err := s.validator.Question().DecodeMCQ(question.QuestionData); err == nil {
			row[1] = content.Question
			row[2] = content.Options.A
			row[3] = content.Options.B
			row[4] = content.Options.C
			row[5] = content.Options.D
			row[6] = content.CorrectAnswer
			row[8] = content.Explanation
			return row
		}
	case models.QuestionOpenEnded:
		if content, err := s.validator.Question().DecodeOpenEnded(question.QuestionData); err == nil {
			row[1] = content.Question
			row[7] = content.SampleAnswer
			row[8] = content.Explanation
			return row
		}
	}

	var text string
	if err := json.Unmarshal(question.QuestionData, &text); err != nil {
		text = string(question.QuestionData)
	}
	row[1] = text
	return row
}
