package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lnkday/page-engine/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all pages",
	Long:  `List all pages with their status, experiment state and view counts.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	return withStore(func(s *store.SQLiteStore) error {
		pages, err := s.List(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list pages: %w", err)
		}

		if len(pages) == 0 {
			fmt.Println("No pages yet.")
			fmt.Println()
			fmt.Println("Create one with:")
			fmt.Println("  page-engine create <slug>")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tSTATUS\tBLOCKS\tEXPERIMENT\tVIEWS\tCREATED")

		for _, p := range pages {
			expState := "-"
			if exp := p.Settings.Experiment; exp != nil {
				switch {
				case exp.WinnerVariantID != "":
					expState = "CONCLUDED"
				case exp.IsEnabled:
					expState = fmt.Sprintf("RUNNING (%d)", len(exp.Variants))
				default:
					expState = "CONFIGURED"
				}
			}

			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
				p.Slug,
				strings.ToUpper(string(p.Status)),
				len(p.Blocks),
				expState,
				formatNumber(int(p.Views)),
				p.CreatedAt.Format("2006-01-02"),
			)
		}

		w.Flush()
		return nil
	})
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}
