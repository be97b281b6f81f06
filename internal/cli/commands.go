package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scanify/backend/internal/domain"
)

func newMatchFileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "match-file <filename>...",
		Short: "Identify the stockist behind statement filenames",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.Matching.IdentifyStockists(cmd.Context(), args)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), results)
			}
			return printResults(cmd, "FILE", results)
		},
	}
}

func newMatchProductCmd(opts *options) *cobra.Command {
	var name, pack string
	cmd := &cobra.Command{
		Use:   "match-product",
		Short: "Match a product name and pack to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.Matching.MatchProducts(cmd.Context(), []domain.ProductQuery{{Name: name, Pack: pack}})
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), results[0])
			}
			return printResults(cmd, "PRODUCT", results)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "product name as written on the statement")
	cmd.Flags().StringVar(&pack, "pack", "", "pack as written on the statement")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSuggestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <archive.zip>",
		Short: "Suggest stockists for every file in a statement archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			suggestions, err := a.Statements.SuggestArchive(cmd.Context(), archive)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), suggestions)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tMATCHED\tCANDIDATES")
			for _, s := range suggestions {
				matched := s.MatchedStockist
				if matched == "" {
					matched = "-"
				}
				parts := make([]string, len(s.TopCandidates))
				for i, c := range s.TopCandidates {
					parts[i] = fmt.Sprintf("%s %s (%.1f%%)", c.Code, c.Name, c.Score)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Filename, matched, strings.Join(parts, "; "))
			}
			return tw.Flush()
		},
	}
}

func newImportCmd(opts *options) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "import <archive.zip>",
		Short: "Import a month of stockist statements from a ZIP archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Statements.BulkImport(cmd.Context(), month, archive)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "batch %s (%s): %s\n", report.ID, report.Month, report.Status)
			fmt.Fprintf(out, "files %d, success %d, failed %d, skipped %d\n",
				report.TotalFiles, report.SuccessCount, report.FailedCount, report.SkippedCount)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tSTATUS\tSTOCKIST\tITEMS\tUNMATCHED\tMESSAGE")
			for _, f := range report.Files {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
					f.File, f.Status, f.Stockist, f.ItemsExtracted, f.ItemsUnmatched, f.Message)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "statement month, YYYY-MM")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

// printResults prints one row per match result
func printResults(cmd *cobra.Command, queryHeader string, results []domain.MatchResult) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tCODE\tNAME\tSCORE\tRESULT\n", queryHeader)
	for _, r := range results {
		if r.Accepted {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.3f\t%s\n", r.Query, r.Code, r.Name, r.Score, r.Strategy)
			continue
		}
		best := "-"
		if len(r.TopCandidates) > 0 {
			best = "best: " + r.TopCandidates[0].Name
		}
		reason := r.Reason
		if r.Skipped {
			reason = "skipped (" + r.Reason + ")"
		}
		fmt.Fprintf(tw, "%s\t-\t%s\t%.3f\t%s\n", r.Query, best, r.Score, reason)
	}
	return tw.Flush()
}
