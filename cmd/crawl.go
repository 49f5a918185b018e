// File: cmd/crawl.go
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/votelens/votelens/internal/browser"
	"github.com/votelens/votelens/internal/finder"
	"github.com/votelens/votelens/internal/ingest"
	"github.com/votelens/votelens/internal/observability"
	"github.com/votelens/votelens/internal/orchestrator"
	"github.com/votelens/votelens/internal/reporting"
)

// newCrawlCmd creates and configures the `crawl` command.
func newCrawlCmd() *cobra.Command {
	crawlCmd := &cobra.Command{
		Use:   "crawl <urls.csv>",
		Short: "Crawls the URLs in a CSV file and reports interaction elements per page",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so CLI flags override the
			// config file and environment with the right precedence.
			bindings := map[string]string{
				"browser.headless":   "headless",
				"browser.profile":    "profile",
				"finder.threshold":   "threshold",
				"crawl.output_dir":   "output-dir",
				"crawl.scroll_count": "scroll-count",
				"crawl.delay":        "delay",
				"crawl.click_first":  "click",
				"crawl.limit":        "limit",
			}
			for key, flag := range bindings {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if extra, err := cmd.Flags().GetStringSlice("keywords"); err == nil && len(extra) > 0 {
				cfg.Finder.ExtraKeywords = append(cfg.Finder.ExtraKeywords, extra...)
			}

			urls, err := ingest.LoadURLs(args[0], logger)
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				return fmt.Errorf("no valid URLs found in %s", args[0])
			}

			reporter, err := reporting.NewWriter(cfg.Crawl.OutputDir, logger)
			if err != nil {
				return err
			}

			manager, err := browser.NewManager(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			f := finder.New(finder.Config{
				Threshold:     cfg.Finder.Threshold,
				ExtraKeywords: cfg.Finder.ExtraKeywords,
			}, logger)

			crawler, err := orchestrator.New(cfg, logger,
				func(ctx context.Context) (orchestrator.PageSession, error) {
					sess, err := manager.NewSession(ctx)
					if err != nil {
						return nil, err
					}
					return sess, nil
				},
				f, reporter)
			if err != nil {
				return err
			}

			reported, err := crawler.Run(ctx, urls)
			if err != nil {
				return err
			}
			logger.Info("Crawl complete.",
				zap.Int("pages_reported", reported),
				zap.String("output_dir", cfg.Crawl.OutputDir),
			)
			return nil
		},
	}

	crawlCmd.Flags().Bool("headless", true, "run the browser headless")
	crawlCmd.Flags().String("profile", "", "browser profile to reuse (see 'votelens profile')")
	crawlCmd.Flags().Int("threshold", finder.DefaultThreshold, "fuzzy match threshold, 0-100")
	crawlCmd.Flags().StringSlice("keywords", nil, "extra keywords to add to the match catalog")
	crawlCmd.Flags().StringP("output-dir", "o", "output", "directory for reports and screenshots")
	crawlCmd.Flags().Int("scroll-count", 3, "scroll-to-bottom passes per page")
	crawlCmd.Flags().Duration("delay", 2*time.Second, "minimum delay between pages")
	crawlCmd.Flags().Bool("click", false, "click the first discovered element on each page")
	crawlCmd.Flags().Int("limit", 0, "process at most this many URLs (0 = all)")

	return crawlCmd
}

func init() {
	rootCmd.AddCommand(newCrawlCmd())
}
