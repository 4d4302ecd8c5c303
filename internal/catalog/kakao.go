package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const kakaoBookURL = "https://dapi.kakao.com/v3/search/book"

// Kakao searches the Kakao (Daum) book search API, which has much better
// coverage of Korean titles than Google Books.
type Kakao struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func (k *Kakao) Name() string { return "kakao" }

// Search returns up to limit documents whose title matches query
func (k *Kakao) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	base := k.BaseURL
	if base == "" {
		base = kakaoBookURL
	}

	// Kakao caps size at 50
	size := min(limit, 50)

	params := url.Values{}
	params.Set("query", query)
	params.Set("size", strconv.Itoa(size))
	params.Set("target", "title")

	header := http.Header{}
	header.Set("Authorization", "KakaoAK "+k.APIKey)

	var result struct {
		Documents []struct {
			ISBN     string   `json:"isbn"`
			Title    string   `json:"title"`
			Authors  []string `json:"authors"`
			Contents string   `json:"contents"`
		} `json:"documents"`
	}

	client := k.Client
	if client == nil {
		client = http.DefaultClient
	}
	if err := getJSON(ctx, client, base+"?"+params.Encode(), header, &result); err != nil {
		return nil, fmt.Errorf("failed to query Kakao book search: %w", err)
	}

	candidates := make([]Candidate, 0, len(result.Documents))
	for _, doc := range result.Documents {
		if doc.Title == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			// isbn holds "ISBN10 ISBN13", either of which may be blank
			ID:          strings.TrimSpace(doc.ISBN),
			Title:       doc.Title,
			Authors:     doc.Authors,
			Description: cleanDescription(doc.Contents),
		})
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}
