package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	results := []MatchResult{
		{Title: "Walden", Score: 1.0, AuthorScore: 0.8, Author: "Thoreau", Candidates: 3, ProcessingTime: 2 * time.Second},
		{Title: "Emma", Score: 0.5, Candidates: 5, ProcessingTime: time.Second},
		{Title: "Obscure pamphlet", Score: 0.2, Candidates: 2},
		{Title: "Nothing", Candidates: 0},
		{Title: "Broken", Error: "catalog unavailable", ProcessingTime: time.Second},
	}

	agg := Aggregate(results, 0.45, []float64{0.3, 0.6, 0.9})

	assert.Equal(t, 5, agg.TotalRecords)
	assert.Equal(t, 4, agg.SuccessCount)
	assert.Equal(t, 1, agg.FailureCount)
	assert.Equal(t, 1, agg.NoCandidates)
	assert.Equal(t, 2, agg.Accepted)
	assert.InDelta(t, 0.5, agg.AcceptanceRate, 1e-9)
	assert.InDelta(t, (1.0+0.5+0.2+0)/4, agg.MeanTopScore, 1e-9)
	assert.InDelta(t, 0.8, agg.MeanAuthor, 1e-9)
	assert.Equal(t, 800*time.Millisecond, agg.AverageTime)

	want := []ThresholdStats{
		{Threshold: 0.3, Accepted: 2, AcceptanceRate: 0.5},
		{Threshold: 0.6, Accepted: 1, AcceptanceRate: 0.25},
		{Threshold: 0.9, Accepted: 1, AcceptanceRate: 0.25},
	}
	assert.Equal(t, want, agg.Sweep)
}

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate(nil, 0.45, DefaultSweep)

	assert.Zero(t, agg.TotalRecords)
	assert.Zero(t, agg.AcceptanceRate)
	assert.Zero(t, agg.MeanTopScore)
	assert.Len(t, agg.Sweep, len(DefaultSweep))
}

func TestAggregateZeroCandidatesNeverAccepted(t *testing.T) {
	agg := Aggregate([]MatchResult{{Title: "x", Candidates: 0}}, 0, []float64{0})

	assert.Zero(t, agg.Accepted)
	assert.Zero(t, agg.Sweep[0].Accepted)
}
