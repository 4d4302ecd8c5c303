package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/bookbrief/internal/summary"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSummarizeCmd(opts *rootOptions) *cobra.Command {
	var style string
	var num int
	var format string

	cmd := &cobra.Command{
		Use:   "summarize <title>",
		Short: "Summarize one book from the command line",
		Long: `Runs the same catalog lookup and generation flow as POST /api/summary for a
single title and prints the response.`,
		Example: `  # Five sentence summary
  bookbrief summarize "해리포터"

  # Ten sentences for a young reader, as YAML
  bookbrief summarize "The Hobbit" --num 10 --style "for a ten year old" --format yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format: %s (supported: json, yaml)", format)
			}

			service, closeFn, err := newService(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			resp := service.Summarize(cmd.Context(), summary.Request{
				RequestID: uuid.NewString(),
				Title:     strings.Join(args, " "),
				Style:     style,
				Num:       num,
			})

			var out []byte
			switch format {
			case "yaml":
				out, err = yaml.Marshal(resp)
			default:
				out, err = json.MarshalIndent(resp, "", "  ")
				out = append(out, '\n')
			}
			if err != nil {
				return fmt.Errorf("failed to encode response: %w", err)
			}

			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			if resp.Error != "" {
				return fmt.Errorf("summary failed: %s", resp.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "Writing style for the summary")
	cmd.Flags().IntVarP(&num, "num", "n", 0, "Number of sentences (defaults to generation.default_count)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json, yaml)")

	return cmd
}
