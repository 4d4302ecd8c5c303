package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/bookbrief/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Backend     string  `yaml:"backend"`
	Strategy    string  `yaml:"strategy"`
	Threshold   float64 `yaml:"threshold"`
	MaxResults  int     `yaml:"maxresults"`
	DatasetPath string  `yaml:"datasetpath"`
	SampleSize  int     `yaml:"samplesize"`
	Timestamp   string  `yaml:"timestamp"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier  string  `yaml:"identifier,omitempty"`
	Title       string  `yaml:"title"`
	Author      string  `yaml:"author,omitempty"`
	BestTitle   string  `yaml:"besttitle,omitempty"`
	BestAuthors string  `yaml:"bestauthors,omitempty"`
	Score       float64 `yaml:"score"`
	AuthorScore float64 `yaml:"authorscore,omitempty"`
	Accepted    bool    `yaml:"accepted"`
	Candidates  int     `yaml:"candidates"`
	Error       string  `yaml:"error,omitempty"`
}

// EvalSpec represents the complete evaluation report
type EvalSpec struct {
	Config  EvalConfig               `yaml:"config"`
	Summary metrics.AggregateResults `yaml:"summary"`
	Results []EvalResult             `yaml:"results"`
}

// NewSpec assembles a report from per-record results and their aggregate
func NewSpec(config EvalConfig, results []metrics.MatchResult, summary metrics.AggregateResults) EvalSpec {
	if config.Timestamp == "" {
		config.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	spec := EvalSpec{
		Config:  config,
		Summary: summary,
		Results: make([]EvalResult, 0, len(results)),
	}

	for _, r := range results {
		spec.Results = append(spec.Results, EvalResult{
			Identifier:  r.Barcode,
			Title:       r.Title,
			Author:      r.Author,
			BestTitle:   r.BestTitle,
			BestAuthors: r.BestAuthors,
			Score:       r.Score,
			AuthorScore: r.AuthorScore,
			Accepted:    r.Accepted,
			Candidates:  r.Candidates,
			Error:       r.Error,
		})
	}

	return spec
}

// DefaultPath returns evals/<backend>-<timestamp>.yaml
func DefaultPath(spec EvalSpec) string {
	return filepath.Join("evals", fmt.Sprintf("%s-%s.yaml", spec.Config.Backend, spec.Config.Timestamp))
}

// SaveToYAML writes the report to path, creating parent directories.
// It returns the absolute path written.
func SaveToYAML(path string, spec EvalSpec) (string, error) {
	if path == "" {
		path = DefaultPath(spec)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return absPath, nil
}
