// File: cmd/fill.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/internal/config"
	"github.com/mwielandt/autoform-cli/internal/observability"
	"github.com/mwielandt/autoform-cli/internal/orchestrator"
)

var (
	profilePath string
	autoSubmit  bool
)

var fillCmd = &cobra.Command{
	Use:   "fill [url]...",
	Short: "Fill the application form(s) at the given URL(s) from a profile.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		profile, err := config.LoadProfile(profilePath)
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}

		runner := orchestrator.NewRunner(appCfg, profile, logger)
		results := runner.Run(cmd.Context(), args)

		failures := 0
		for _, r := range results {
			if r.Err != nil {
				failures++
				logger.Error("form run failed",
					zap.String("url", r.URL),
					zap.Error(r.Err))
				continue
			}
			logger.Info("form run finished",
				zap.String("url", r.URL),
				zap.Int("filled", r.Result.Filled),
				zap.Int("skipped", r.Result.Skipped),
				zap.Int("failed", r.Result.Failed),
				zap.Bool("submitted", r.Result.Submitted))
		}
		if failures > 0 {
			return fmt.Errorf("%d of %d form runs failed", failures, len(results))
		}
		return nil
	},
}

func init() {
	fillCmd.Flags().StringVarP(&profilePath, "profile", "p", "profile.json", "path to the profile JSON file")
	fillCmd.Flags().BoolVar(&autoSubmit, "auto-submit", false, "submit the form after filling")
	fillCmd.Flags().Bool("headless", true, "run the browser headless")
	_ = viper.BindPFlag("browser.headless", fillCmd.Flags().Lookup("headless"))
	_ = viper.BindPFlag("engine.auto_submit", fillCmd.Flags().Lookup("auto-submit"))
	rootCmd.AddCommand(fillCmd)
}
