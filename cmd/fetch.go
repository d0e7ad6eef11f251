package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KinoBytes/filmtally-cli/internal/config"
	"github.com/KinoBytes/filmtally-cli/internal/fetch"
)

var fetchForce bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the movie dataset into the raw data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		if err := cfgpkg.EnsureDirs(c); err != nil {
			return err
		}
		f := fetch.New(c, logger)
		path, err := f.Fetch(cmd.Context(), fetchForce)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Dataset ready at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "re-download even when a cached dataset exists")
}
