package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lnkday/page-engine/internal/page"
	"github.com/lnkday/page-engine/internal/store"
)

func init() {
	rootCmd.AddCommand(newCreateCmd())
}

func newCreateCmd() *cobra.Command {
	var (
		teamID     string
		blocksFile string
		themeFile  string
	)

	cmd := &cobra.Command{
		Use:   "create <slug>",
		Short: "Create a new page",
		Long: `Create a new page in draft state.

Blocks and theme can be loaded from JSON files; without them the page starts
with a single header block and the default theme.

Examples:
  page-engine create my-links
  page-engine create my-links --blocks blocks.json --theme theme.json
  page-engine create my-links --team team_42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]

			blocks := []page.Block{
				{ID: uuid.New().String(), Type: "header", Content: map[string]any{"text": slug}, Order: 0},
			}
			if blocksFile != "" {
				if err := readJSONFile(blocksFile, &blocks); err != nil {
					return fmt.Errorf("failed to read blocks file: %w", err)
				}
			}

			theme := page.Theme{}
			if themeFile != "" {
				if err := readJSONFile(themeFile, &theme); err != nil {
					return fmt.Errorf("failed to read theme file: %w", err)
				}
			}

			return withStore(func(s *store.SQLiteStore) error {
				p := &page.Page{
					ID:     uuid.New().String(),
					Slug:   slug,
					TeamID: teamID,
					Status: page.StatusDraft,
					Blocks: blocks,
					Theme:  theme,
				}

				if err := s.Create(context.Background(), p); err != nil {
					if errors.Is(err, store.ErrSlugTaken) {
						return fmt.Errorf("slug '%s' is already taken", slug)
					}
					return fmt.Errorf("failed to create page: %w", err)
				}

				fmt.Printf("Created page '%s' (%s) with %d blocks\n", p.Slug, p.ID, len(p.Blocks))
				fmt.Println("The page is a draft; run 'page-engine publish' to make it visible.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&teamID, "team", "", "owning team id (optional)")
	cmd.Flags().StringVar(&blocksFile, "blocks", "", "path to a JSON file with the block list (optional)")
	cmd.Flags().StringVar(&themeFile, "theme", "", "path to a JSON file with the theme map (optional)")

	return cmd
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
