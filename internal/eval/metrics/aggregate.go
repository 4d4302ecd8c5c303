package metrics

import (
	"time"
)

// DefaultSweep is the set of thresholds the acceptance rate is reported at
var DefaultSweep = []float64{0.3, 0.4, 0.45, 0.5, 0.6, 0.7, 0.8, 0.9}

// MatchResult is the outcome of matching one dataset title against the catalog
type MatchResult struct {
	Barcode        string
	Title          string
	Author         string
	BestTitle      string
	BestAuthors    string
	Score          float64
	AuthorScore    float64
	Accepted       bool
	Candidates     int
	ProcessingTime time.Duration
	Error          string // catalog failure for this record
}

// ThresholdStats is the acceptance rate at one threshold
type ThresholdStats struct {
	Threshold      float64 `yaml:"threshold"`
	Accepted       int     `yaml:"accepted"`
	AcceptanceRate float64 `yaml:"acceptancerate"`
}

// AggregateResults summarizes a matcher evaluation run
type AggregateResults struct {
	TotalRecords   int              `yaml:"totalrecords"`
	SuccessCount   int              `yaml:"successcount"`
	FailureCount   int              `yaml:"failurecount"`
	NoCandidates   int              `yaml:"nocandidates"`
	Threshold      float64          `yaml:"threshold"`
	Accepted       int              `yaml:"accepted"`
	AcceptanceRate float64          `yaml:"acceptancerate"`
	MeanTopScore   float64          `yaml:"meantopscore"`
	MeanAuthor     float64          `yaml:"meanauthorscore"`
	AverageTime    time.Duration    `yaml:"averagetime"`
	Sweep          []ThresholdStats `yaml:"sweep"`
}

// Aggregate computes run-level statistics. Rates are over records whose
// catalog search succeeded; failed records only count toward FailureCount.
func Aggregate(results []MatchResult, threshold float64, sweep []float64) AggregateResults {
	agg := AggregateResults{
		TotalRecords: len(results),
		Threshold:    threshold,
	}

	var scores []float64
	var authorScores []float64
	var totalDuration time.Duration

	for _, r := range results {
		totalDuration += r.ProcessingTime
		if r.Error != "" {
			agg.FailureCount++
			continue
		}
		agg.SuccessCount++
		if r.Candidates == 0 {
			agg.NoCandidates++
		}
		if accepted(r, threshold) {
			agg.Accepted++
		}
		scores = append(scores, r.Score)
		if r.Author != "" && r.Candidates > 0 {
			authorScores = append(authorScores, r.AuthorScore)
		}
	}

	agg.MeanTopScore = calculateAverage(scores)
	agg.MeanAuthor = calculateAverage(authorScores)
	agg.AcceptanceRate = rate(agg.Accepted, agg.SuccessCount)
	if len(results) > 0 {
		agg.AverageTime = totalDuration / time.Duration(len(results))
	}

	for _, th := range sweep {
		stats := ThresholdStats{Threshold: th}
		for _, r := range results {
			if r.Error == "" && accepted(r, th) {
				stats.Accepted++
			}
		}
		stats.AcceptanceRate = rate(stats.Accepted, agg.SuccessCount)
		agg.Sweep = append(agg.Sweep, stats)
	}

	return agg
}

func accepted(r MatchResult, threshold float64) bool {
	return r.Candidates > 0 && r.Score >= threshold
}

func calculateAverage(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
