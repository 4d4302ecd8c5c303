// Package matching replays dataset titles through a catalog backend and
// scores how the matcher would have treated each one.
package matching

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/bookbrief/internal/catalog"
	"github.com/lehigh-university-libraries/bookbrief/internal/eval/dataset"
	"github.com/lehigh-university-libraries/bookbrief/internal/eval/metrics"
	"github.com/lehigh-university-libraries/bookbrief/internal/similarity"
)

// Runner evaluates catalog matching over dataset records
type Runner struct {
	searcher    catalog.Searcher
	threshold   float64
	maxResults  int
	concurrency int
}

// Option configures a Runner
type Option func(*Runner)

// WithMaxResults sets how many candidates each search requests
func WithMaxResults(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxResults = n
		}
	}
}

// WithConcurrency sets how many searches run at once
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewRunner creates a runner accepting matches at threshold
func NewRunner(searcher catalog.Searcher, threshold float64, opts ...Option) *Runner {
	r := &Runner{
		searcher:    searcher,
		threshold:   threshold,
		maxResults:  10,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run matches every record and returns results in input order. A failed
// search is recorded on its result and does not stop the run.
func (r *Runner) Run(ctx context.Context, records []dataset.Record) []metrics.MatchResult {
	results := make([]metrics.MatchResult, len(records))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, r.concurrency)

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record dataset.Record) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Debug("Matching record", "barcode", record.Barcode, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))
			results[idx] = r.matchOne(ctx, record)
		}(i, record)
	}

	wg.Wait()
	return results
}

func (r *Runner) matchOne(ctx context.Context, record dataset.Record) metrics.MatchResult {
	start := time.Now()
	query := record.QueryTitle()

	result := metrics.MatchResult{
		Barcode: record.Barcode,
		Title:   query,
		Author:  record.Author,
	}

	candidates, err := r.searcher.Search(ctx, query, r.maxResults)
	result.ProcessingTime = time.Since(start)
	if err != nil {
		slog.Warn("Catalog search failed", "barcode", record.Barcode, "title", query, "err", err)
		result.Error = err.Error()
		return result
	}

	result.Candidates = len(candidates)
	ranked := catalog.Rank(query, candidates)
	if len(ranked) == 0 {
		return result
	}

	best := ranked[0]
	result.BestTitle = best.Candidate.Title
	result.BestAuthors = best.Candidate.AuthorLine()
	result.Score = best.Score
	result.Accepted = best.Score >= r.threshold
	if record.Author != "" && len(best.Candidate.Authors) > 0 {
		result.AuthorScore = authorScore(record.Author, best.Candidate.Authors)
	}
	return result
}

// authorScore compares a library-style "Last, First" heading against the
// best-scoring catalog author, trying both name orders.
func authorScore(heading string, authors []string) float64 {
	heading = strings.TrimRight(strings.TrimSpace(heading), " ,.")
	forms := []string{heading}
	if last, first, ok := strings.Cut(heading, ","); ok {
		forms = append(forms, strings.TrimSpace(first)+" "+strings.TrimSpace(last))
	}

	best := 0.0
	for _, a := range authors {
		for _, f := range forms {
			if s := similarity.Similarity(f, a); s > best {
				best = s
			}
		}
	}
	return best
}
