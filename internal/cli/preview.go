package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lnkday/page-engine/internal/experiment"
	"github.com/lnkday/page-engine/internal/page"
	"github.com/lnkday/page-engine/internal/render"
	"github.com/lnkday/page-engine/internal/seo"
	"github.com/lnkday/page-engine/internal/store"
)

func init() {
	rootCmd.AddCommand(newPreviewCmd())
}

func newPreviewCmd() *cobra.Command {
	var (
		variantID string
		outFile   string
	)

	cmd := &cobra.Command{
		Use:   "preview <slug>",
		Short: "Render a page to stdout or a file",
		Long: `Render a page the way the server would and print the document.

Drafts render too, so a page can be checked before publishing. With an
experiment running, --variant pins a specific variant; otherwise one is
drawn at random like a real visit.

Examples:
  page-engine preview my-links
  page-engine preview my-links --variant v2 -o preview.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]

			return withStore(func(s *store.SQLiteStore) error {
				p, err := s.GetBySlug(context.Background(), slug)
				if err != nil {
					return fmt.Errorf("page not found: %s", slug)
				}

				var variant *page.Variant
				if variantID != "" {
					variant = p.Settings.Experiment.Variant(variantID)
					if variant == nil {
						return fmt.Errorf("variant not found: %s", variantID)
					}
				} else {
					variant = experiment.NewSelector().Select(p.Settings.Experiment, "")
				}

				head := (&seo.MetaProvider{}).Head(p)
				doc, err := render.Render(p, variant, head)
				if err != nil {
					return fmt.Errorf("failed to render page: %w", err)
				}

				if outFile != "" {
					if err := os.WriteFile(outFile, []byte(doc.HTML), 0644); err != nil {
						return fmt.Errorf("failed to write output file: %w", err)
					}
					fmt.Printf("Wrote %s", outFile)
					if doc.VariantID != "" {
						fmt.Printf(" (variant %s)", doc.VariantID)
					}
					fmt.Println()
					return nil
				}

				fmt.Println(doc.HTML)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&variantID, "variant", "v", "", "render a specific experiment variant")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the document to a file instead of stdout")

	return cmd
}
