package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/bookbrief/internal/similarity"
)

// ErrNotFound is returned when a title does not resolve to a confident catalog match
var ErrNotFound = errors.New("book not found in catalog")

// DefaultThreshold is the minimum similarity for a fuzzy match to be accepted
const DefaultThreshold = 0.45

// Strategy selects how a user-supplied title is resolved against the catalog
type Strategy string

const (
	// StrategyNone skips the catalog and passes the title through unchanged
	StrategyNone Strategy = "none"
	// StrategyExact accepts only a case-insensitive exact title match
	StrategyExact Strategy = "exact"
	// StrategyFuzzy accepts the best-scoring title at or above the threshold
	StrategyFuzzy Strategy = "fuzzy"
)

// ParseStrategy validates a strategy name from configuration
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyNone:
		return StrategyNone, nil
	case StrategyExact:
		return StrategyExact, nil
	case StrategyFuzzy, "":
		return StrategyFuzzy, nil
	default:
		return "", fmt.Errorf("unsupported catalog strategy: %s", s)
	}
}

// Match is a catalog candidate with its similarity to the query
type Match struct {
	Candidate Candidate `json:"candidate"`
	Score     float64   `json:"score"`
}

// Matcher resolves free-text titles to catalog records
type Matcher struct {
	searcher   Searcher
	strategy   Strategy
	threshold  float64
	maxResults int
}

// MatcherOption configures a Matcher
type MatcherOption func(*Matcher)

// WithThreshold sets the minimum accepted score for fuzzy matching
func WithThreshold(threshold float64) MatcherOption {
	return func(m *Matcher) { m.threshold = threshold }
}

// WithMaxResults sets how many candidates are requested per search
func WithMaxResults(n int) MatcherOption {
	return func(m *Matcher) {
		if n > 0 {
			m.maxResults = n
		}
	}
}

// NewMatcher creates a matcher over searcher. searcher may be nil only for StrategyNone.
func NewMatcher(searcher Searcher, strategy Strategy, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		searcher:   searcher,
		strategy:   strategy,
		threshold:  DefaultThreshold,
		maxResults: 10,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Strategy reports the configured strategy
func (m *Matcher) Strategy() Strategy {
	return m.strategy
}

// Threshold reports the configured acceptance threshold
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// FindBestMatch searches the catalog for query and returns the highest-scoring
// candidate. Any catalog failure is reported as ErrNotFound; the cause is logged.
func (m *Matcher) FindBestMatch(ctx context.Context, query string) (Match, error) {
	query = strings.TrimSpace(query)

	if m.strategy == StrategyNone {
		return Match{Candidate: Candidate{Title: query}, Score: 1.0}, nil
	}
	if query == "" || m.searcher == nil {
		return Match{}, ErrNotFound
	}

	candidates, err := m.searcher.Search(ctx, query, m.maxResults)
	if err != nil {
		slog.Warn("Catalog search failed", "catalog", m.searcher.Name(), "query", query, "err", err)
		return Match{}, ErrNotFound
	}
	if len(candidates) == 0 {
		slog.Info("Catalog returned no candidates", "catalog", m.searcher.Name(), "query", query)
		return Match{}, ErrNotFound
	}

	ranked := Rank(query, candidates)
	best := ranked[0]

	threshold := m.threshold
	if m.strategy == StrategyExact {
		threshold = 1.0
	}

	slog.Debug("Best catalog candidate",
		"query", query,
		"title", best.Candidate.Title,
		"score", best.Score,
		"threshold", threshold,
		"candidates", len(ranked))

	if best.Score < threshold {
		return Match{}, ErrNotFound
	}
	return best, nil
}

// Rank scores every candidate title against query, highest first.
// Ties keep catalog order.
func Rank(query string, candidates []Candidate) []Match {
	ranked := make([]Match, len(candidates))
	for i, c := range candidates {
		ranked[i] = Match{Candidate: c, Score: similarity.Similarity(query, c.Title)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
