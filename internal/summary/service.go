package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bookbrief/internal/catalog"
	"github.com/lehigh-university-libraries/bookbrief/internal/providers"
)

const (
	introNotFound      = "%q was not found in the book catalog. Please check the title and try again."
	introNonexistent   = "This book could not be confirmed to exist, so no summary was written."
	introFailed        = "Summary generation failed. Please try again."
	introMissingTitle  = "Please enter a book title."
	shortfallNote      = "(Only %d of %d requested sentences were produced.)"
	defaultRequestTime = 2 * time.Minute
)

// Error codes carried in Response.Error
const (
	CodeGenerationFailed = "generation_failed"
	CodeInvalidRequest   = "invalid_request"
)

// Request is one summary request from a client
type Request struct {
	RequestID string
	Title     string
	Style     string
	Num       int
}

// Response is always returned to the client, including on failure
type Response struct {
	Found          bool    `json:"found" yaml:"found"`
	CorrectedTitle *string `json:"correctedTitle" yaml:"correctedTitle"`
	Intro          string  `json:"intro" yaml:"intro"`
	Summary        string  `json:"summary" yaml:"summary"`
	RequestedCount int     `json:"requestedCount" yaml:"requestedCount"`
	DeliveredCount int     `json:"deliveredCount" yaml:"deliveredCount"`
	Error          string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Settings are the request-level limits of the service
type Settings struct {
	DefaultCount      int
	MaxCount          int
	AnnotateShortfall bool
	RequestTimeout    time.Duration
	Options           Options
}

// DefaultSettings returns the limits used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		DefaultCount:      5,
		MaxCount:          70,
		AnnotateShortfall: true,
		RequestTimeout:    defaultRequestTime,
		Options:           DefaultOptions(),
	}
}

// Service resolves a title against the catalog and writes its summary
type Service struct {
	matcher    *catalog.Matcher
	requester  *Requester
	reconciler *Reconciler
	settings   Settings
}

// NewService wires a service from its collaborators
func NewService(matcher *catalog.Matcher, provider providers.Provider, settings Settings) *Service {
	return &Service{
		matcher:    matcher,
		requester:  NewRequester(provider, settings.Options),
		reconciler: NewReconciler(provider, settings.Options),
		settings:   settings,
	}
}

// ClampCount bounds a client-supplied sentence count to [1, MaxCount];
// missing or non-positive values use DefaultCount.
func (s *Service) ClampCount(n int) int {
	if n < 1 {
		n = s.settings.DefaultCount
	}
	if n < 1 {
		n = 1
	}
	limit := MaxSentences
	if s.settings.MaxCount > 0 && s.settings.MaxCount < limit {
		limit = s.settings.MaxCount
	}
	if n > limit {
		n = limit
	}
	return n
}

// Summarize runs the full flow for one request. It never returns an error:
// every failure is mapped to a Response. Client cancellation is ignored; the
// request runs until it completes or hits the internal timeout.
func (s *Service) Summarize(ctx context.Context, req Request) Response {
	ctx = context.WithoutCancel(ctx)
	if s.settings.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.RequestTimeout)
		defer cancel()
	}

	log := slog.With("request_id", req.RequestID)
	start := time.Now()

	title := strings.TrimSpace(req.Title)
	n := s.ClampCount(req.Num)
	if title == "" {
		log.Info("Rejected summary request", "err", ErrEmptyTitle)
		return Response{Intro: introMissingTitle, RequestedCount: n, Error: CodeInvalidRequest}
	}

	log.Info("Summary requested", "title", title, "num", n, "strategy", s.matcher.Strategy())

	match, err := s.matcher.FindBestMatch(ctx, title)
	if err != nil {
		log.Info("Title not resolved", "title", title, "err", err)
		return Response{Intro: fmt.Sprintf(introNotFound, title), RequestedCount: n}
	}
	fromCatalog := s.matcher.Strategy() != catalog.StrategyNone
	if fromCatalog {
		log.Info("Catalog match", "title", match.Candidate.Title, "score", match.Score)
	}

	genReq := GenerationRequest{
		Title:          match.Candidate.Title,
		Authors:        match.Candidate.AuthorLine(),
		Description:    match.Candidate.Description,
		Style:          req.Style,
		RequestedCount: n,
	}

	result, err := s.requester.Request(ctx, genReq)
	if err != nil {
		log.Error("Initial generation failed", "title", genReq.Title, "err", err)
		resp := Response{Found: fromCatalog, Intro: introFailed, RequestedCount: n, Error: CodeGenerationFailed}
		if fromCatalog {
			resp.CorrectedTitle = stringPtr(match.Candidate.Title)
		}
		return resp
	}

	if !result.Exists {
		log.Info("Model reports book does not exist", "title", genReq.Title)
		intro := result.Intro
		if intro == "" {
			intro = introNonexistent
		}
		resp := Response{Intro: intro, RequestedCount: n}
		if result.CorrectedTitle != "" {
			resp.CorrectedTitle = stringPtr(result.CorrectedTitle)
		}
		return resp
	}

	rec := s.reconciler.Reconcile(ctx, result.Sentences, n, genReq)

	correctedTitle := result.CorrectedTitle
	if correctedTitle == "" {
		correctedTitle = genReq.Title
	}

	log.Info("Summary generated",
		"title", correctedTitle,
		"requested", rec.Requested,
		"delivered", rec.Delivered,
		"rounds", rec.Rounds,
		"elapsed", time.Since(start))

	return Response{
		Found:          true,
		CorrectedTitle: stringPtr(correctedTitle),
		Intro:          result.Intro,
		Summary:        s.render(rec),
		RequestedCount: rec.Requested,
		DeliveredCount: rec.Delivered,
	}
}

// render joins the sentences into one paragraph, adding a shortfall note
func (s *Service) render(rec Reconciliation) string {
	text := strings.Join(rec.Sentences, " ")
	if rec.Short() && s.settings.AnnotateShortfall {
		note := fmt.Sprintf(shortfallNote, rec.Delivered, rec.Requested)
		if text == "" {
			return note
		}
		text += "\n\n" + note
	}
	return text
}

func stringPtr(s string) *string {
	return &s
}
