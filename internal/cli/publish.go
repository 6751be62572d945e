package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lnkday/page-engine/internal/page"
	"github.com/lnkday/page-engine/internal/store"
)

func init() {
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newUnpublishCmd())
	rootCmd.AddCommand(newArchiveCmd())
}

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <slug>",
		Short: "Publish a page",
		Long:  `Publish a page so visitors can render it. Sets publishedAt on the first publish.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transition(args[0], "published", func(p *page.Page) {
				p.Publish(time.Now())
			})
		},
	}
}

func newUnpublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpublish <slug>",
		Short: "Revert a page to draft",
		Long:  `Revert a published page to draft. Idempotent; publishedAt is kept.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transition(args[0], "draft", func(p *page.Page) {
				p.Unpublish()
			})
		},
	}
}

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <slug>",
		Short: "Archive a page",
		Long:  `Archive a page. Archived pages are terminal: they no longer render and cannot be unarchived here.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transition(args[0], "archived", func(p *page.Page) {
				p.Archive()
			})
		},
	}
}

func transition(slug, label string, apply func(*page.Page)) error {
	return withStore(func(s *store.SQLiteStore) error {
		ctx := context.Background()

		p, err := s.GetBySlug(ctx, slug)
		if err != nil {
			return fmt.Errorf("page not found: %s", slug)
		}

		apply(p)

		if err := s.Save(ctx, p); err != nil {
			return fmt.Errorf("failed to save page: %w", err)
		}

		fmt.Printf("Page '%s' is now %s.\n", slug, label)
		return nil
	})
}
