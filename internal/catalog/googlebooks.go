package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const googleBooksURL = "https://www.googleapis.com/books/v1/volumes"

// GoogleBooks searches the Google Books volumes API.
// The API key is optional; unauthenticated requests share a lower quota.
type GoogleBooks struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func (g *GoogleBooks) Name() string { return "googlebooks" }

// Search returns up to limit volumes for query, in the order Google ranks them
func (g *GoogleBooks) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	base := g.BaseURL
	if base == "" {
		base = googleBooksURL
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("printType", "books")
	if g.APIKey != "" {
		params.Set("key", g.APIKey)
	}

	var result struct {
		Items []struct {
			ID         string `json:"id"`
			VolumeInfo struct {
				Title       string   `json:"title"`
				Subtitle    string   `json:"subtitle"`
				Authors     []string `json:"authors"`
				Description string   `json:"description"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}

	if err := getJSON(ctx, g.client(), base+"?"+params.Encode(), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to query Google Books API: %w", err)
	}

	candidates := make([]Candidate, 0, len(result.Items))
	for _, item := range result.Items {
		if item.VolumeInfo.Title == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:          item.ID,
			Title:       item.VolumeInfo.Title,
			Authors:     item.VolumeInfo.Authors,
			Description: cleanDescription(item.VolumeInfo.Description),
		})
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

func (g *GoogleBooks) client() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return http.DefaultClient
}
