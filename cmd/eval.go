package cmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/bookbrief/internal/catalog"
	"github.com/lehigh-university-libraries/bookbrief/internal/config"
	"github.com/lehigh-university-libraries/bookbrief/internal/eval/dataset"
	"github.com/lehigh-university-libraries/bookbrief/internal/eval/matching"
	"github.com/lehigh-university-libraries/bookbrief/internal/eval/metrics"
	"github.com/lehigh-university-libraries/bookbrief/internal/eval/results"
	"github.com/spf13/cobra"
)

func newEvalCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Catalog matching evaluation tools",
		Long: `Evaluation tools for measuring how often catalog lookups resolve real titles.

Titles come from the Institutional Books 1.0 dataset, which can be fetched from
HuggingFace with "eval fetch".`,
	}

	cmd.AddCommand(newEvalFetchCmd())
	cmd.AddCommand(newEvalMatchCmd(opts))

	return cmd
}

func newEvalFetchCmd() *cobra.Command {
	var cacheDir string
	var force bool

	cmd := &cobra.Command{
		Use:   "fetch [file]",
		Short: "Download an Institutional Books shard into the local cache",
		Example: `  # Fetch the first parquet shard
  bookbrief eval fetch

  # Fetch a specific shard
  bookbrief eval fetch data/train-00001-of-09831.parquet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := dataset.DefaultShard
			if len(args) == 1 {
				file = args[0]
			}

			d := dataset.NewDownloader(dataset.DownloadConfig{
				CacheDir:      cacheDir,
				ForceDownload: force,
				Token:         os.Getenv("HF_TOKEN"),
			})
			path, err := d.Download(cmd.Context(), file)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", dataset.DefaultCacheDir, "Dataset cache directory")
	cmd.Flags().BoolVar(&force, "force", false, "Download even when the file is cached")

	return cmd
}

func newEvalMatchCmd(opts *rootOptions) *cobra.Command {
	var datasetPath string
	var sampleSize int
	var outputPath string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Measure catalog match rates for dataset titles",
		Long: `Runs every dataset title through the configured catalog backend, scores the
candidates the same way the summary service does, and writes a YAML report with
per-record results, the acceptance rate at the configured threshold, the mean
top score, and the acceptance rate across a sweep of thresholds.`,
		Example: `  # Evaluate 50 titles against Google Books
  bookbrief eval match --dataset ./train-00000-of-09831.parquet --sample 50

  # Evaluate a JSONL file against Kakao and choose the report path
  bookbrief eval match --dataset titles.jsonl --catalog kakao --output evals/kakao.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg

			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s\n\nFetch a shard first:\n  bookbrief eval fetch", datasetPath)
			}

			records, err := dataset.NewLoader(datasetPath).LoadSample(sampleSize)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			if len(records) == 0 {
				return fmt.Errorf("no records with titles in %s", datasetPath)
			}

			threshold, err := evalThreshold(cfg.Catalog)
			if err != nil {
				return err
			}

			searcher, err := catalog.NewSearcher(cfg.Catalog.Backend, cfg.Catalog.APIKey, cfg.Catalog.Timeout)
			if err != nil {
				return err
			}

			runner := matching.NewRunner(searcher, threshold,
				matching.WithMaxResults(cfg.Catalog.MaxResults),
				matching.WithConcurrency(concurrency),
			)
			matchResults := runner.Run(cmd.Context(), records)
			summary := metrics.Aggregate(matchResults, threshold, metrics.DefaultSweep)

			spec := results.NewSpec(results.EvalConfig{
				Backend:     searcher.Name(),
				Strategy:    cfg.Catalog.Strategy,
				Threshold:   threshold,
				MaxResults:  cfg.Catalog.MaxResults,
				DatasetPath: datasetPath,
				SampleSize:  len(records),
			}, matchResults, summary)

			path, err := results.SaveToYAML(outputPath, spec)
			if err != nil {
				return err
			}

			printSummary(cmd, summary)
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "./institutional-books-1.0/data/train-00000-of-09831.parquet", "Path to a parquet or JSONL dataset file")
	cmd.Flags().IntVar(&sampleSize, "sample", 10, "Number of records to evaluate (-1 for all)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Report path (default evals/<backend>-<timestamp>.yaml)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "Concurrent catalog searches")

	return cmd
}

// evalThreshold is the acceptance threshold the summary service would apply
// under the configured strategy. Strategy none never consults the catalog, so
// there is nothing to evaluate.
func evalThreshold(cat config.Catalog) (float64, error) {
	strategy, err := catalog.ParseStrategy(cat.Strategy)
	if err != nil {
		return 0, err
	}
	switch strategy {
	case catalog.StrategyNone:
		return 0, fmt.Errorf("catalog strategy %q skips the catalog; use fuzzy or exact for eval match", strategy)
	case catalog.StrategyExact:
		return 1.0, nil
	default:
		return cat.Threshold, nil
	}
}

func printSummary(cmd *cobra.Command, s metrics.AggregateResults) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Records:          %d (%d failed, %d without candidates)\n", s.TotalRecords, s.FailureCount, s.NoCandidates)
	fmt.Fprintf(out, "Accepted @ %.2f:  %d (%.1f%%)\n", s.Threshold, s.Accepted, s.AcceptanceRate*100)
	fmt.Fprintf(out, "Mean top score:   %.3f\n", s.MeanTopScore)
	fmt.Fprintf(out, "Mean author score: %.3f\n", s.MeanAuthor)
	fmt.Fprintln(out, "\nThreshold sweep:")
	for _, t := range s.Sweep {
		fmt.Fprintf(out, "  %.2f  %4d  %5.1f%%\n", t.Threshold, t.Accepted, t.AcceptanceRate*100)
	}
}
