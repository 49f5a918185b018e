// File: cmd/inspect.go
package cmd

import (
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/votelens/votelens/api/schemas"
	"github.com/votelens/votelens/internal/browser"
	"github.com/votelens/votelens/internal/browser/snapshot"
	"github.com/votelens/votelens/internal/finder"
	"github.com/votelens/votelens/internal/observability"
)

var inspectJSON = jsoniter.Config{EscapeHTML: false, SortMapKeys: true}.Froze()

// newInspectCmd creates the `inspect` command, a single-page variant of the
// crawl that prints its findings instead of writing report files. With --html
// it runs entirely offline against a saved page snapshot.
func newInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspects a single page (or saved HTML file) for interaction elements",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("finder.threshold", cmd.Flags().Lookup("threshold")); err != nil {
				return err
			}
			return viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			pageURL, _ := cmd.Flags().GetString("url")
			htmlPath, _ := cmd.Flags().GetString("html")
			if (pageURL == "") == (htmlPath == "") {
				return fmt.Errorf("exactly one of --url or --html is required")
			}

			f := finder.New(finder.Config{
				Threshold:     cfg.Finder.Threshold,
				ExtraKeywords: cfg.Finder.ExtraKeywords,
			}, logger)

			var (
				page   finder.Page
				target string
			)
			if htmlPath != "" {
				data, err := os.ReadFile(htmlPath)
				if err != nil {
					return fmt.Errorf("failed to read HTML file: %w", err)
				}
				snap, err := snapshot.ParseString(string(data))
				if err != nil {
					return err
				}
				page, target = snap, htmlPath
			} else {
				manager, err := browser.NewManager(ctx, cfg, logger)
				if err != nil {
					return err
				}
				defer manager.Shutdown()

				sess, err := manager.NewSession(ctx)
				if err != nil {
					return err
				}
				defer sess.Close()

				if err := sess.Navigate(ctx, pageURL); err != nil {
					return err
				}
				if n := cfg.Crawl.ScrollCount; n > 0 {
					if err := sess.ScrollToBottom(ctx, n); err != nil {
						logger.Warn("Scroll pass incomplete.", zap.Error(err))
					}
				}
				page, target = sess, pageURL
			}

			records := f.Discover(ctx, page)
			report := &schemas.PageReport{
				URL:          target,
				Timestamp:    time.Now(),
				ElementCount: len(records),
				Elements:     records,
			}

			out, err := inspectJSON.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}

			if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
				if err := os.WriteFile(outPath, out, 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				logger.Info("Report written.", zap.String("path", outPath))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	inspectCmd.Flags().String("url", "", "URL to inspect in a live browser")
	inspectCmd.Flags().String("html", "", "saved HTML file to inspect offline")
	inspectCmd.Flags().Int("threshold", finder.DefaultThreshold, "fuzzy match threshold, 0-100")
	inspectCmd.Flags().Bool("headless", true, "run the browser headless")
	inspectCmd.Flags().StringP("output", "o", "", "write the JSON report to a file instead of stdout")

	return inspectCmd
}

func init() {
	rootCmd.AddCommand(newInspectCmd())
}
