package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Candidate is a single book returned by a catalog search
type Candidate struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
}

// AuthorLine renders the ordered author list as a single string
func (c Candidate) AuthorLine() string {
	return strings.Join(c.Authors, ", ")
}

// Searcher runs a free-text title search against a book catalog
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// NewSearcher creates the catalog backend named by backend
func NewSearcher(backend, apiKey string, timeout time.Duration) (Searcher, error) {
	httpClient := &http.Client{Timeout: timeout}

	switch backend {
	case "googlebooks", "google":
		return &GoogleBooks{APIKey: apiKey, Client: httpClient}, nil
	case "kakao":
		if apiKey == "" {
			return nil, fmt.Errorf("API key required for Kakao book search")
		}
		return &Kakao{APIKey: apiKey, Client: httpClient}, nil
	default:
		return nil, fmt.Errorf("unsupported catalog backend: %s", backend)
	}
}

// getJSON performs a single GET and decodes a JSON body into out
func getJSON(ctx context.Context, client *http.Client, reqURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// cleanDescription strips markup from catalog descriptions and collapses whitespace.
// Catalogs return anything from plain text to <p>/<b>/<br> fragments with entities.
func cleanDescription(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		doc.Find("br, p, li").Each(func(_ int, s *goquery.Selection) {
			s.AfterHtml(" ")
		})
		text = doc.Text()
	}

	return strings.Join(strings.Fields(text), " ")
}
