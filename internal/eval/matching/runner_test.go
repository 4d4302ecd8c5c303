package matching

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lehigh-university-libraries/bookbrief/internal/catalog"
	"github.com/lehigh-university-libraries/bookbrief/internal/eval/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSearcher struct {
	mu      sync.Mutex
	results map[string][]catalog.Candidate
	limits  []int
}

func (m *mapSearcher) Name() string { return "map" }

func (m *mapSearcher) Search(ctx context.Context, query string, limit int) ([]catalog.Candidate, error) {
	m.mu.Lock()
	m.limits = append(m.limits, limit)
	m.mu.Unlock()
	if query == "Broken" {
		return nil, errors.New("catalog unavailable")
	}
	return m.results[query], nil
}

func TestRun(t *testing.T) {
	searcher := &mapSearcher{results: map[string][]catalog.Candidate{
		"Walden": {
			{Title: "Walden Pond Guide"},
			{Title: "Walden", Authors: []string{"Henry David Thoreau"}},
		},
		"Emma": {{Title: "Completely different"}},
	}}

	records := []dataset.Record{
		{Barcode: "1", Title: "Walden /", Author: "Thoreau, Henry David"},
		{Barcode: "2", Title: "Emma"},
		{Barcode: "3", Title: "Broken"},
		{Barcode: "4", Title: "Unknown"},
	}

	runner := NewRunner(searcher, 0.45, WithMaxResults(5), WithConcurrency(3))
	results := runner.Run(context.Background(), records)

	require.Len(t, results, 4)

	assert.Equal(t, "1", results[0].Barcode)
	assert.Equal(t, "Walden", results[0].Title)
	assert.Equal(t, "Walden", results[0].BestTitle)
	assert.Equal(t, "Henry David Thoreau", results[0].BestAuthors)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, 1.0, results[0].AuthorScore)
	assert.True(t, results[0].Accepted)
	assert.Equal(t, 2, results[0].Candidates)

	assert.False(t, results[1].Accepted)
	assert.Less(t, results[1].Score, 0.45)

	assert.Equal(t, "catalog unavailable", results[2].Error)
	assert.Zero(t, results[2].Candidates)

	assert.Zero(t, results[3].Candidates)
	assert.False(t, results[3].Accepted)
	assert.Empty(t, results[3].Error)

	for _, l := range searcher.limits {
		assert.Equal(t, 5, l)
	}
}

func TestAuthorScore(t *testing.T) {
	tests := []struct {
		name    string
		heading string
		authors []string
		want    float64
	}{
		{"inverted heading", "Austen, Jane,", []string{"Jane Austen"}, 1},
		{"direct order", "Jane Austen", []string{"Someone Else", "Jane Austen"}, 1},
		{"no authors", "Austen, Jane", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, authorScore(tt.heading, tt.authors), 1e-9)
		})
	}
}
