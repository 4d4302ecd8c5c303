package summary

import (
	"context"
	"testing"

	"github.com/lehigh-university-libraries/bookbrief/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dune = GenerationRequest{
	Title:          "Dune",
	Authors:        "Frank Herbert",
	Description:    "A desert planet and a noble family.",
	Style:          "for a ten year old",
	RequestedCount: 3,
}

func TestRequestStructured_FirstAttempt(t *testing.T) {
	p := &scriptedProvider{responses: []scripted{
		reply(`{"exists": true, "corrected_title": "Dune", "intro": "Hi.", "summary_sentences": ["A.", "B.", "C."]}`),
	}}
	r := NewRequester(p, DefaultOptions())

	got, err := r.RequestStructured(context.Background(), dune)
	require.NoError(t, err)
	assert.Equal(t, []string{"A.", "B.", "C."}, got.Sentences)
	assert.Equal(t, 1, p.callCount())

	call := p.calls[0]
	assert.Equal(t, providers.FormatJSONObject, call.Format)
	assert.Equal(t, 0.0, call.Temperature)
	assert.Equal(t, 4096, call.MaxTokens)
	assert.Contains(t, call.Prompt, "for a ten year old")
	assert.Contains(t, call.Prompt, "A desert planet and a noble family.")
	assert.Contains(t, call.Prompt, "exactly 3 strings")
}

func TestRequestStructured_RetriesWithPreviousOutput(t *testing.T) {
	p := &scriptedProvider{responses: []scripted{
		reply("Dune is great, here is my summary"),
		reply(`{"exists": true, "corrected_title": "Dune", "intro": "", "summary_sentences": ["A."]}`),
	}}
	r := NewRequester(p, DefaultOptions())

	got, err := r.RequestStructured(context.Background(), dune)
	require.NoError(t, err)
	assert.Equal(t, []string{"A."}, got.Sentences)
	require.Equal(t, 2, p.callCount())
	assert.Contains(t, p.calls[1].Prompt, "previous response was invalid")
	assert.Contains(t, p.calls[1].Prompt, "Dune is great, here is my summary")
}

func TestRequestStructured_ExhaustsRetries(t *testing.T) {
	p := &scriptedProvider{responses: []scripted{
		reply("nope"), reply("still nope"), reply("never"), reply(`{"exists": true}`),
	}}
	r := NewRequester(p, DefaultOptions())

	_, err := r.RequestStructured(context.Background(), dune)
	assert.ErrorIs(t, err, ErrParseFailure)
	assert.Equal(t, 3, p.callCount(), "one attempt plus two re-prompts")
}

func TestRequestStructured_TransportErrorsConsumeAttempts(t *testing.T) {
	p := &scriptedProvider{responses: []scripted{
		fail("503"),
		reply(`{"exists": true, "corrected_title": "Dune", "intro": "", "summary_sentences": ["A."]}`),
	}}
	r := NewRequester(p, DefaultOptions())

	got, err := r.RequestStructured(context.Background(), dune)
	require.NoError(t, err)
	assert.Len(t, got.Sentences, 1)
	assert.NotContains(t, p.calls[1].Prompt, "previous response was invalid")
}

func TestRequestStructured_TruncatesOverDelivery(t *testing.T) {
	p := &scriptedProvider{responses: []scripted{
		reply(`{"exists": true, "corrected_title": "Dune", "intro": "", "summary_sentences": ["A.", "B.", "C.", "D.", "E."]}`),
	}}
	got, err := NewRequester(p, DefaultOptions()).RequestStructured(context.Background(), dune)
	require.NoError(t, err)
	assert.Equal(t, []string{"A.", "B.", "C."}, got.Sentences)
}

func TestRequest_TextMode(t *testing.T) {
	p := &scriptedProvider{responses: []scripted{
		reply("INTRO: A novel.\nSUMMARY:\n1. A.\n2. B."),
	}}
	opts := DefaultOptions()
	opts.Output = OutputText

	got, err := NewRequester(p, opts).Request(context.Background(), dune)
	require.NoError(t, err)
	assert.True(t, got.Exists)
	assert.Equal(t, "A novel.", got.Intro)
	assert.Equal(t, []string{"A.", "B."}, got.Sentences)
	assert.Equal(t, providers.FormatText, p.calls[0].Format)
}

func TestParseOutputMode(t *testing.T) {
	m, err := ParseOutputMode("")
	require.NoError(t, err)
	assert.Equal(t, OutputSchema, m)

	m, err = ParseOutputMode("TEXT")
	require.NoError(t, err)
	assert.Equal(t, OutputText, m)

	_, err = ParseOutputMode("xml")
	assert.Error(t, err)
}

func TestRequestStructured_RetriesNeverExceedHardLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.ParseRetries = 9
	p := &scriptedProvider{}

	_, err := NewRequester(p, opts).RequestStructured(context.Background(), dune)
	assert.ErrorIs(t, err, ErrParseFailure)
	assert.Equal(t, MaxParseRetries+1, p.callCount())
}
