package pipeline

import (
	"errors"
	"time"

	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for pipeline runs. A nil *Metrics is
// valid and records nothing.
//
// Metrics:
//   - examgen_stage_duration_seconds{stage}
//   - examgen_passages_total{stage}
//   - examgen_passages_rejected_total{reason}
//   - examgen_questions_total{type,outcome}
//   - examgen_runs_total{outcome}
type Metrics struct {
	StageDuration  *prometheus.HistogramVec
	PassagesTotal  *prometheus.CounterVec
	RejectedTotal  *prometheus.CounterVec
	QuestionsTotal *prometheus.CounterVec
	RunsTotal      *prometheus.CounterVec
}

// NewMetrics registers the pipeline metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "examgen_stage_duration_seconds",
				Help:    "Duration of each pipeline stage in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"stage"}, // retrieve, filter, rerank, normalize, synthesize
		),
		PassagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "examgen_passages_total",
				Help: "Passages leaving each pipeline stage",
			},
			[]string{"stage"},
		),
		RejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "examgen_passages_rejected_total",
				Help: "Passages dropped by the relevance filter",
			},
			[]string{"reason"},
		),
		QuestionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "examgen_questions_total",
				Help: "Generated questions by outcome",
			},
			[]string{"type", "outcome"}, // generated, failed, invalid_type, timeout
		),
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "examgen_runs_total",
				Help: "Pipeline runs by outcome",
			},
			[]string{"outcome"}, // success, partial, empty, error
		),
	}
}

func (m *Metrics) observeStage(stage string, start time.Time, passages int) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if passages >= 0 {
		m.PassagesTotal.WithLabelValues(stage).Add(float64(passages))
	}
}

func (m *Metrics) rejected(reasons map[RejectReason]int) {
	if m == nil {
		return
	}
	for reason, count := range reasons {
		m.RejectedTotal.WithLabelValues(string(reason)).Add(float64(count))
	}
}

func (m *Metrics) questionGenerated(questionType models.QuestionType) {
	if m == nil {
		return
	}
	m.QuestionsTotal.WithLabelValues(string(questionType), "generated").Inc()
}

func (m *Metrics) questionFailed(questionType string, err error) {
	if m == nil {
		return
	}
	outcome := "failed"
	switch {
	case errors.Is(err, ErrInvalidQuestionType):
		outcome = "invalid_type"
	case errors.Is(err, ErrGenerationTimeout):
		outcome = "timeout"
	}
	label := "unknown"
	if parsed, ok := models.ParseQuestionType(questionType); ok {
		label = string(parsed)
	}
	m.QuestionsTotal.WithLabelValues(label, outcome).Inc()
}

func (m *Metrics) run(outcome string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
}
