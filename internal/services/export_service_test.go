package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportExam(t *testing.T) {
	exams := new(MockExamService)
	exams.On("GetExam", mock.Anything, uint(2), uint(5)).Return(&models.Exam{
		ID:     2,
		UserID: 5,
		Questions: []byte(`[
			{"type":"mcq","source_content":"Stacks are LIFO.","question_data":{"question":"What order does a stack use?","options":{"A":"LIFO","B":"FIFO","C":"Random","D":"Sorted"},"correct_answer":"A","explanation":"Last in, first out."}},
			{"type":"open-ended","source_content":"Queues are FIFO.","question_data":{"question":"Explain a queue.","sample_answer":"First in, first out.","explanation":"Order of arrival."}},
			{"type":"mcq","source_content":"Heaps.","question_data":"model returned prose"}
		]`),
	}, nil)

	service := NewExportService(exams, validator.New(), newTestServiceLogger())

	var buf bytes.Buffer
	require.NoError(t, service.ExportExam(context.Background(), 2, 5, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"mcq", "What order does a stack use?", "LIFO", "FIFO", "Random", "Sorted", "A", "", "Last in, first out.", "Stacks are LIFO."}, rows[1])
	assert.Equal(t, "Explain a queue.", rows[2][1])
	assert.Equal(t, "First in, first out.", rows[2][7])
	assert.Equal(t, "model returned prose", rows[3][1])
}

func TestExportExamAccessDenied(t *testing.T) {
	exams := new(MockExamService)
	exams.On("GetExam", mock.Anything, uint(2), uint(6)).Return(nil, ErrExamAccessDenied)

	service := NewExportService(exams, validator.New(), newTestServiceLogger())

	var buf bytes.Buffer
	err := service.ExportExam(context.Background(), 2, 6, &buf)
	assert.ErrorIs(t, err, ErrExamAccessDenied)
	assert.Zero(t, buf.Len())
}
