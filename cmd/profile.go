// File: cmd/profile.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/votelens/votelens/internal/observability"
	"github.com/votelens/votelens/internal/profile"
)

// newProfileCmd groups the browser profile management subcommands. Profiles
// carry logged-in browser state between crawl runs.
func newProfileCmd() *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage persistent browser profiles",
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Opens a browser to record a new profile; close the window when done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startURL, _ := cmd.Flags().GetString("url")
			wait, _ := cmd.Flags().GetDuration("wait")
			manager := profile.NewManager(viper.GetString("browser.profile_dir"), observability.GetLogger())
			return manager.Create(cmd.Context(), args[0], startURL, wait)
		},
	}
	createCmd.Flags().String("url", "https://www.baidu.com", "page to open for login")
	createCmd.Flags().Duration("wait", 5*time.Minute, "maximum time to wait before saving")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := profile.NewManager(viper.GetString("browser.profile_dir"), observability.GetLogger())
			names, err := manager.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no profiles found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Deletes a saved profile and its browser data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := profile.NewManager(viper.GetString("browser.profile_dir"), observability.GetLogger())
			return manager.Delete(args[0])
		},
	}

	profileCmd.AddCommand(createCmd, listCmd, deleteCmd)
	return profileCmd
}

func init() {
	rootCmd.AddCommand(newProfileCmd())
}
