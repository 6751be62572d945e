package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lnkday/page-engine/internal/store"
)

func init() {
	rootCmd.AddCommand(newDeleteCmd())
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]

			return withStore(func(s *store.SQLiteStore) error {
				if err := s.Delete(context.Background(), slug); err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("page not found: %s", slug)
					}
					return fmt.Errorf("failed to delete page: %w", err)
				}

				fmt.Printf("Deleted page '%s'\n", slug)
				return nil
			})
		},
	}

	return cmd
}
