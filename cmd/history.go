package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/KinoBytes/filmtally-cli/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(c.HistoryDB)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  rows=%s color=%s bw=%s unknown=%s column=%s (%dms)\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				shortID(r.ID),
				humanize.Comma(int64(r.Rows)),
				humanize.Comma(int64(r.Color)),
				humanize.Comma(int64(r.BlackAndWhite)),
				humanize.Comma(int64(r.Unknown)),
				orDash(r.ColorColumn),
				r.DurationMS)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(c.HistoryDB)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Clear(); err != nil {
			return err
		}
		fmt.Println("✓ Cleared run history")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to list (0 = all)")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
