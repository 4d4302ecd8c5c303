package summary

import (
	"context"
	"testing"

	"github.com/lehigh-university-libraries/bookbrief/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_NothingToDo(t *testing.T) {
	p := &scriptedProvider{}
	rec := NewReconciler(p, DefaultOptions()).Reconcile(context.Background(), []string{"A.", "B."}, 2, dune)

	assert.Equal(t, []string{"A.", "B."}, rec.Sentences)
	assert.Zero(t, rec.Rounds)
	assert.Zero(t, p.callCount())
	assert.False(t, rec.Short())
}

func TestReconcile_TopsUpInOneRound(t *testing.T) {
	p := &scriptedProvider{responses: []scripted{reply(`["D.", "E."]`)}}
	rec := NewReconciler(p, DefaultOptions()).Reconcile(context.Background(), []string{"A.", "B.", "C."}, 5, dune)

	assert.Equal(t, []string{"A.", "B.", "C.", "D.", "E."}, rec.Sentences)
	assert.Equal(t, 1, rec.Rounds)
	assert.Equal(t, 5, rec.Delivered)

	require.Equal(t, 1, p.callCount())
	call := p.calls[0]
	assert.Equal(t, providers.FormatJSONArray, call.Format)
	assert.Contains(t, call.Prompt, "exactly 2 NEW sentences")
	assert.Contains(t, call.Prompt, "3. C.")
}

func TestReconcile_StuckGeneratorStopsAfterThreeRounds(t *testing.T) {
	p := &scriptedProvider{responses: []scripted{
		reply(`[]`), reply(`["A."]`), fail("timeout"), reply(`["never asked"]`),
	}}
	rec := NewReconciler(p, DefaultOptions()).Reconcile(context.Background(), []string{"A.", "B."}, 5, dune)

	assert.Equal(t, []string{"A.", "B."}, rec.Sentences)
	assert.Equal(t, 3, rec.Rounds)
	assert.Equal(t, 3, p.callCount())
	assert.True(t, rec.Short())
	assert.Equal(t, 2, rec.Delivered)
}

func TestReconcile_DeduplicatesAndStopsAtTarget(t *testing.T) {
	p := &scriptedProvider{responses: []scripted{
		reply(`["b.", "C.", "D.", "E.", "F."]`),
	}}
	rec := NewReconciler(p, DefaultOptions()).Reconcile(context.Background(), []string{"A.", " A. ", "B.", ""}, 3, dune)

	assert.Equal(t, []string{"A.", "B.", "C."}, rec.Sentences)
	assert.Equal(t, 1, rec.Rounds)
}

func TestReconcile_TruncatesOverDeliveredInitial(t *testing.T) {
	p := &scriptedProvider{}
	rec := NewReconciler(p, DefaultOptions()).Reconcile(context.Background(), []string{"A.", "B.", "C.", "D."}, 2, dune)

	assert.Equal(t, []string{"A.", "B."}, rec.Sentences)
	assert.Zero(t, p.callCount())
}

func TestReconcile_PlainTextFallback(t *testing.T) {
	p := &scriptedProvider{responses: []scripted{reply("Here are more. C. D.")}}
	rec := NewReconciler(p, DefaultOptions()).Reconcile(context.Background(), []string{"A."}, 3, dune)

	assert.Equal(t, []string{"A.", "Here are more.", "C."}, rec.Sentences)
}

func TestReconcile_LengthNeverExceedsRequested(t *testing.T) {
	behaviours := [][]scripted{
		{reply(`["1.", "2.", "3.", "4.", "5.", "6.", "7.", "8."]`)},
		{reply("x"), reply("y"), reply("z")},
		{fail("a"), fail("b"), fail("c")},
		{reply(`["dup."]`), reply(`["dup."]`), reply(`["dup."]`)},
	}

	for n := 1; n <= 6; n++ {
		for _, b := range behaviours {
			p := &scriptedProvider{responses: append([]scripted(nil), b...)}
			rec := NewReconciler(p, DefaultOptions()).Reconcile(context.Background(), []string{"seed."}, n, dune)
			assert.LessOrEqual(t, len(rec.Sentences), n)
			assert.LessOrEqual(t, rec.Rounds, 3)
			assert.LessOrEqual(t, p.callCount(), 3)
		}
	}
}

func TestReconcile_RoundsNeverExceedHardLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.ContinuationRounds = 10
	p := &scriptedProvider{}

	rec := NewReconciler(p, opts).Reconcile(context.Background(), []string{"A."}, 5, dune)

	assert.Equal(t, MaxContinuationRounds, rec.Rounds)
	assert.Equal(t, MaxContinuationRounds, p.callCount())
}
