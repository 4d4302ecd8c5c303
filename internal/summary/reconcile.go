package summary

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/bookbrief/internal/providers"
)

// Reconciliation is the outcome of topping up a sentence list
type Reconciliation struct {
	Sentences []string
	Requested int
	Delivered int
	Rounds    int
}

// Short reports whether fewer sentences than requested were produced
func (r Reconciliation) Short() bool {
	return r.Delivered < r.Requested
}

// Reconciler tops up an under-delivered sentence list with bounded follow-ups
type Reconciler struct {
	provider providers.Provider
	opts     Options
}

// NewReconciler creates a reconciler that calls provider within opts
func NewReconciler(provider providers.Provider, opts Options) *Reconciler {
	return &Reconciler{provider: provider, opts: opts}
}

// Reconcile returns at most requested sentences. While short it asks the model
// for exactly the missing count, up to ContinuationRounds times. Every round
// counts toward the limit whether or not it produced anything.
func (r *Reconciler) Reconcile(ctx context.Context, initial []string, requested int, req GenerationRequest) Reconciliation {
	collected := newSentenceSet(requested)
	for _, s := range initial {
		collected.add(s)
	}

	limit := min(r.opts.ContinuationRounds, MaxContinuationRounds)
	rounds := 0
	for !collected.full() && rounds < limit {
		rounds++
		need := requested - collected.count()

		raw, err := r.provider.GenerateText(ctx, providers.Config{
			Model:       r.opts.Model,
			Temperature: r.opts.Temperature,
			MaxTokens:   r.opts.MaxOutputTokens,
			Format:      providers.FormatJSONArray,
			Prompt:      buildContinuationPrompt(req, collected.items, need),
		})
		if err != nil {
			slog.Warn("Continuation call failed", "round", rounds, "need", need, "err", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		added := 0
		for _, s := range parseContinuation(raw) {
			if collected.full() {
				break
			}
			if collected.add(s) {
				added++
			}
		}
		slog.Debug("Continuation round", "round", rounds, "need", need, "added", added, "total", collected.count())
	}

	return Reconciliation{
		Sentences: collected.items,
		Requested: requested,
		Delivered: collected.count(),
		Rounds:    rounds,
	}
}

// sentenceSet is an ordered, deduplicated, capped list of sentences
type sentenceSet struct {
	items []string
	seen  map[string]struct{}
	limit int
}

func newSentenceSet(limit int) *sentenceSet {
	return &sentenceSet{
		items: make([]string, 0, limit),
		seen:  make(map[string]struct{}, limit),
		limit: limit,
	}
}

func (s *sentenceSet) add(sentence string) bool {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" || s.full() {
		return false
	}
	key := sentenceKey(sentence)
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, sentence)
	return true
}

func (s *sentenceSet) full() bool {
	return len(s.items) >= s.limit
}

func (s *sentenceSet) count() int {
	return len(s.items)
}
