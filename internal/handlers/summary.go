package handlers

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/bookbrief/internal/summary"
)

const maxBodyBytes = 64 << 10

type summaryRequest struct {
	Title string        `json:"title"`
	Style string        `json:"style"`
	Num   sentenceCount `json:"num"`
}

// sentenceCount accepts a JSON number or a numeric string, since HTML
// form values arrive as strings. Anything unparseable, NaN or infinite is
// treated as unset; out-of-range values saturate.
type sentenceCount int

func (c *sentenceCount) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*c = 0
		return nil
	}
	// saturate before converting; the service clamps to its own maximum
	switch {
	case f > math.MaxInt32:
		f = math.MaxInt32
	case f < math.MinInt32:
		f = math.MinInt32
	}
	*c = sentenceCount(int(f))
	return nil
}

// HandleSummary serves POST /api/summary. Every outcome other than a wrong
// method is reported as HTTP 200 with a JSON body.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", requestID)

	var body summaryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		slog.Warn("Invalid summary request body", "request_id", requestID, "err", err)
		h.writeJSON(w, summary.Response{
			Intro: "Invalid request: expected a JSON body with a title.",
			Error: summary.CodeInvalidRequest,
		})
		return
	}

	resp := h.summarizer.Summarize(r.Context(), summary.Request{
		RequestID: requestID,
		Title:     body.Title,
		Style:     body.Style,
		Num:       int(body.Num),
	})
	h.writeJSON(w, resp)
}
