package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/bookbrief/internal/eval/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSaveToYAML(t *testing.T) {
	records := []metrics.MatchResult{
		{Barcode: "b1", Title: "Walden", BestTitle: "Walden", Score: 1, Accepted: true, Candidates: 4},
		{Barcode: "b2", Title: "Emma", Error: "catalog unavailable"},
	}
	summary := metrics.Aggregate(records, 0.45, []float64{0.5})

	spec := NewSpec(EvalConfig{Backend: "googlebooks", Threshold: 0.45, Timestamp: "2025-01-02_03-04-05"}, records, summary)
	path := filepath.Join(t.TempDir(), "nested", "report.yaml")

	written, err := SaveToYAML(path, spec)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(written))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got EvalSpec
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "googlebooks", got.Config.Backend)
	require.Len(t, got.Results, 2)
	assert.True(t, got.Results[0].Accepted)
	assert.Equal(t, "catalog unavailable", got.Results[1].Error)
	assert.Equal(t, 1, got.Summary.Accepted)
	assert.Equal(t, 1, got.Summary.FailureCount)
}

func TestDefaultPath(t *testing.T) {
	spec := NewSpec(EvalConfig{Backend: "kakao", Timestamp: "ts"}, nil, metrics.AggregateResults{})
	assert.Equal(t, filepath.Join("evals", "kakao-ts.yaml"), DefaultPath(spec))
}
