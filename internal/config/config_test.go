package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-generation-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 25, cfg.Pipeline.RetrievalK)
	assert.Equal(t, 5, cfg.Pipeline.RerankTopN)
	assert.Equal(t, 30, cfg.Pipeline.FilterMinWords)
	assert.Equal(t, 0.5, cfg.Pipeline.FilterMaxDotRatio)
	assert.Equal(t, 30, cfg.Pipeline.NormalizeMinWords)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenExpiry)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, "chromem", cfg.VectorStore.Backend)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RETRIEVAL_K", "10")
	t.Setenv("RERANK_TOP_N", "3")
	t.Setenv("FILTER_MAX_DOT_RATIO", "0.25")
	t.Setenv("ALLOW_PARTIAL_EXAMS", "true")
	t.Setenv("SYNTH_CALL_TIMEOUT", "5s")
	t.Setenv("SYNTH_WORKERS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Pipeline.RetrievalK)
	assert.Equal(t, 3, cfg.Pipeline.RerankTopN)
	assert.Equal(t, 0.25, cfg.Pipeline.FilterMaxDotRatio)
	assert.True(t, cfg.Pipeline.AllowPartialExams)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.SynthCallTimeout)
	assert.Equal(t, 4, cfg.Pipeline.SynthWorkers)
}

func TestEventConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name   string
		config EventConfig
	}{
		{name: "disabled", config: EventConfig{Enabled: false, Publisher: "kafka"}},
		{name: "mock", config: EventConfig{Enabled: true, Publisher: "mock"}},
		{name: "unknown", config: EventConfig{Enabled: true, Publisher: "rabbit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, err := tt.config.CreateEventPublisher(logger)
			require.NoError(t, err)
			assert.IsType(t, &events.MockEventPublisher{}, publisher)
		})
	}

	brokers := (&EventConfig{KafkaBrokers: "a:9092, b:9092,"}).GetKafkaBrokers()
	assert.Equal(t, []string{"a:9092", "b:9092"}, brokers)
}
