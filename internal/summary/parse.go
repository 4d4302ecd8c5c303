package summary

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/bookbrief/internal/sentences"
)

var (
	summaryMarker = regexp.MustCompile(`(?im)^[ \t]*summary:`)
	introMarker   = regexp.MustCompile(`(?i)^intro(?:duction)?:`)
)

// structuredSummary is the JSON object the summary prompt demands
type structuredSummary struct {
	Exists           *bool    `json:"exists"`
	CorrectedTitle   string   `json:"corrected_title"`
	Intro            string   `json:"intro"`
	SummarySentences []string `json:"summary_sentences"`
}

// stripCodeFence removes a surrounding markdown code block, if any
func stripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	for _, prefix := range []string{"```json", "```JSON", "```"} {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimPrefix(cleaned, prefix)
			break
		}
	}
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// unmarshalSpan parses raw as JSON; failing that, the substring from the first
// open delimiter to the last close delimiter.
func unmarshalSpan(raw string, open, close string, out any) error {
	cleaned := stripCodeFence(raw)

	err := json.Unmarshal([]byte(cleaned), out)
	if err == nil {
		return nil
	}

	start := strings.Index(cleaned, open)
	end := strings.LastIndex(cleaned, close)
	if start >= 0 && end > start {
		if err = json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("invalid JSON response: %w", err)
}

// parseStructured decodes the summary object and normalizes its sentences
func parseStructured(raw string) (GenerationResult, error) {
	var out structuredSummary
	if err := unmarshalSpan(raw, "{", "}", &out); err != nil {
		return GenerationResult{}, err
	}
	if out.Exists == nil {
		return GenerationResult{}, fmt.Errorf("response is missing the exists field")
	}

	return GenerationResult{
		Exists:         *out.Exists,
		CorrectedTitle: strings.TrimSpace(out.CorrectedTitle),
		Intro:          strings.TrimSpace(out.Intro),
		Sentences:      uniqueSentences(cleanSentences(out.SummarySentences)),
	}, nil
}

// parseText splits a free-text response into intro and sentences at the SUMMARY: marker
func parseText(raw string) GenerationResult {
	text := strings.TrimSpace(raw)
	intro, body := "", text

	if loc := summaryMarker.FindStringIndex(text); loc != nil {
		intro = strings.TrimSpace(text[:loc[0]])
		body = text[loc[1]:]
	}
	intro = strings.TrimSpace(introMarker.ReplaceAllString(intro, ""))

	return GenerationResult{
		Exists:    true,
		Intro:     intro,
		Sentences: uniqueSentences(sentences.Extract(body)),
	}
}

// parseContinuation reads the sentences from a continuation response. A JSON
// array is preferred; an object carrying the array is tolerated; anything else
// goes through the sentence extractor.
func parseContinuation(raw string) []string {
	var arr []string
	if err := unmarshalSpan(raw, "[", "]", &arr); err == nil {
		return cleanSentences(arr)
	}

	var obj struct {
		SummarySentences []string `json:"summary_sentences"`
		Sentences        []string `json:"sentences"`
	}
	if err := unmarshalSpan(raw, "{", "}", &obj); err == nil {
		if len(obj.SummarySentences) > 0 {
			return cleanSentences(obj.SummarySentences)
		}
		if len(obj.Sentences) > 0 {
			return cleanSentences(obj.Sentences)
		}
	}

	return sentences.Extract(stripCodeFence(raw))
}

func cleanSentences(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// uniqueSentences drops repeats by sentenceKey, keeping first occurrences
func uniqueSentences(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := sentenceKey(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// sentenceKey is the identity used for deduplication
func sentenceKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
