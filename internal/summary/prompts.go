package summary

import (
	"fmt"
	"strings"
)

const defaultStyle = "clear, neutral and informative"

func styleOrDefault(style string) string {
	if s := strings.TrimSpace(style); s != "" {
		return s
	}
	return defaultStyle
}

// bookFacts renders the catalog facts the model is allowed to rely on
func bookFacts(req GenerationRequest) string {
	authors := req.Authors
	if authors == "" {
		authors = "[unknown]"
	}
	description := req.Description
	if description == "" {
		description = "[no description available]"
	}
	return fmt.Sprintf("Title: %s\nAuthor(s): %s\nDescription: %s", req.Title, authors, description)
}

// buildStructuredPrompt asks for the summary JSON object with exactly N sentences
func buildStructuredPrompt(req GenerationRequest) string {
	return fmt.Sprintf(`You are a careful literary assistant. Introduce and summarize the book described below.

BOOK FACTS (from a library catalog):
%s

RULES:
1. Use only the facts above and widely known information about this exact book. Do not invent characters, events, dates or claims that the description does not support.
2. If the book does not exist, or you cannot describe it faithfully, set "exists" to false, explain why in "intro", and return an empty "summary_sentences" array.
3. Write in this style: %s
4. "summary_sentences" must contain exactly %d strings. Each string is one complete sentence. Do not number them.
5. Write in the same language as the title.

OUTPUT FORMAT:
Respond with ONLY a JSON object, no markdown, no commentary:

{
  "exists": true,
  "corrected_title": "the book's proper title",
  "intro": "a two or three sentence introduction to the book",
  "summary_sentences": ["sentence 1", "sentence 2"]
}`, bookFacts(req), styleOrDefault(req.Style), req.RequestedCount)
}

// buildRetryPrompt re-asks for valid JSON after a response failed to parse
func buildRetryPrompt(req GenerationRequest, previous string) string {
	return fmt.Sprintf(`%s

Your previous response was invalid and could not be parsed as the required JSON object.
Reply with ONLY valid JSON matching the format above. Do not include any other text.

PREVIOUS RESPONSE:
%s`, buildStructuredPrompt(req), previous)
}

// buildTextPrompt asks for an intro and N sentences as plain text
func buildTextPrompt(req GenerationRequest) string {
	return fmt.Sprintf(`You are a careful literary assistant. Introduce and summarize the book described below.

BOOK FACTS (from a library catalog):
%s

Use only the facts above and widely known information about this exact book. Do not invent anything.
Write in this style: %s
Write in the same language as the title.

Reply in exactly this layout:
INTRO: a two or three sentence introduction
SUMMARY:
then exactly %d sentences, one per line, without numbering.`, bookFacts(req), styleOrDefault(req.Style), req.RequestedCount)
}

// buildContinuationPrompt asks for need more sentences that continue the summary
func buildContinuationPrompt(req GenerationRequest, collected []string, need int) string {
	var sb strings.Builder
	for i, s := range collected {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}

	return fmt.Sprintf(`You are continuing a sentence-by-sentence summary of a book.

BOOK FACTS (from a library catalog):
%s

Style: %s

SENTENCES ALREADY WRITTEN (do not repeat or paraphrase any of them):
%s
Write exactly %d NEW sentences that continue the summary from where it stops.
Use only facts consistent with the book facts above.
Respond with ONLY a JSON array of %d strings, for example ["sentence", "sentence"].`,
		bookFacts(req), styleOrDefault(req.Style), sb.String(), need, need)
}
