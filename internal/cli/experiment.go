package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/lnkday/page-engine/internal/experiment"
	"github.com/lnkday/page-engine/internal/page"
	"github.com/lnkday/page-engine/internal/store"
)

func init() {
	rootCmd.AddCommand(newExperimentCmd())
}

func newExperimentCmd() *cobra.Command {
	var (
		configFile string
		disable    bool
	)

	cmd := &cobra.Command{
		Use:   "experiment <slug>",
		Short: "Configure a page's experiment",
		Long: `Configure the split-test attached to a page.

With --file, the configuration (enabled flag plus variants) is loaded from a
JSON file. Without it, the traffic split of the already-configured variants
is adjusted interactively. Enabled configurations must have traffic
percentages summing to 100.

Examples:
  page-engine experiment my-links --file experiment.json
  page-engine experiment my-links
  page-engine experiment my-links --disable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]

			return withStore(func(s *store.SQLiteStore) error {
				ctx := context.Background()

				p, err := s.GetBySlug(ctx, slug)
				if err != nil {
					return fmt.Errorf("page not found: %s", slug)
				}

				var cfg experiment.Config
				switch {
				case configFile != "":
					if err := readJSONFile(configFile, &cfg); err != nil {
						return fmt.Errorf("failed to read experiment config: %w", err)
					}
				case disable:
					if p.Settings.Experiment == nil {
						return fmt.Errorf("page has no experiment to disable")
					}
					cfg = experiment.Config{IsEnabled: false, Variants: p.Settings.Experiment.Variants}
				default:
					cfg, err = promptConfig(p.Settings.Experiment)
					if err != nil {
						return err
					}
				}

				updated, err := experiment.NewManager(s).Configure(ctx, p, cfg)
				if err != nil {
					if errors.Is(err, experiment.ErrTrafficSum) {
						return fmt.Errorf("rejected: %w", err)
					}
					return err
				}

				exp := updated.Settings.Experiment
				state := "disabled"
				if exp.IsEnabled {
					state = "running"
				}
				fmt.Printf("Experiment on '%s' is %s with %d variants:\n", slug, state, len(exp.Variants))
				for _, v := range exp.Variants {
					control := ""
					if v.IsControl {
						control = " (control)"
					}
					fmt.Printf("  %s: %.1f%%%s\n", v.ID, v.TrafficPercentage, control)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configFile, "file", "f", "", "JSON file with the experiment configuration")
	cmd.Flags().BoolVar(&disable, "disable", false, "disable the experiment, keeping its variants")

	return cmd
}

// promptConfig walks the existing variants adjusting their traffic split,
// then asks whether to enable.
func promptConfig(current *page.Experiment) (experiment.Config, error) {
	if current == nil || len(current.Variants) == 0 {
		return experiment.Config{}, fmt.Errorf("page has no configured variants; supply them with --file")
	}

	cfg := experiment.Config{Variants: current.Variants}

	for i := range cfg.Variants {
		v := &cfg.Variants[i]
		prompt := promptui.Prompt{
			Label:   fmt.Sprintf("Traffic %% for %s (%s)", v.Name, v.ID),
			Default: strconv.FormatFloat(v.TrafficPercentage, 'f', -1, 64),
			Validate: func(input string) error {
				f, err := strconv.ParseFloat(input, 64)
				if err != nil {
					return fmt.Errorf("enter a number")
				}
				if f < 0 || f > 100 {
					return fmt.Errorf("must be between 0 and 100")
				}
				return nil
			},
		}
		raw, err := prompt.Run()
		if err != nil {
			if err == promptui.ErrInterrupt {
				os.Exit(0)
			}
			return experiment.Config{}, err
		}
		v.TrafficPercentage, _ = strconv.ParseFloat(raw, 64)
	}

	enable := promptui.Select{
		Label: "Enable experiment now",
		Items: []string{"Yes", "No"},
	}
	idx, _, err := enable.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return experiment.Config{}, err
	}
	cfg.IsEnabled = idx == 0

	return cfg, nil
}
