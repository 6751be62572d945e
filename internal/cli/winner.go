package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lnkday/page-engine/internal/experiment"
	"github.com/lnkday/page-engine/internal/store"
)

func init() {
	rootCmd.AddCommand(newWinnerCmd())
}

func newWinnerCmd() *cobra.Command {
	var variantID string

	cmd := &cobra.Command{
		Use:   "winner <slug>",
		Short: "Declare a winning variant and conclude the experiment",
		Long: `Declare the winning variant of a page's experiment.

The winner's theme override is merged into the page theme, its blocks
override (if any) replaces the page blocks, and the experiment is disabled
with the winner recorded. This is one-way: a concluded experiment cannot be
re-opened.

Example:
  page-engine winner my-links --variant v2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]

			return withStore(func(s *store.SQLiteStore) error {
				ctx := context.Background()

				p, err := s.GetBySlug(ctx, slug)
				if err != nil {
					return fmt.Errorf("page not found: %s", slug)
				}

				updated, err := experiment.NewManager(s).DeclareWinner(ctx, p, variantID)
				if err != nil {
					if errors.Is(err, experiment.ErrNoActiveExperiment) {
						return fmt.Errorf("page '%s' has no active experiment", slug)
					}
					if errors.Is(err, experiment.ErrVariantNotFound) {
						return fmt.Errorf("variant not found: %s", variantID)
					}
					return err
				}

				winner := updated.Settings.Experiment.Variant(variantID)
				fmt.Printf("Declared winner for page '%s': %s (\"%s\")\n", slug, variantID, winner.Name)
				fmt.Println("The winner's overrides are now the canonical page definition.")
				fmt.Println("The experiment has been concluded and cannot be re-opened.")

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&variantID, "variant", "v", "", "winning variant id (required)")
	cmd.MarkFlagRequired("variant")

	return cmd
}
