package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KinoBytes/filmtally-cli/internal/analysis"
	"github.com/KinoBytes/filmtally-cli/internal/columns"
	cfgpkg "github.com/KinoBytes/filmtally-cli/internal/config"
	"github.com/KinoBytes/filmtally-cli/internal/dataset"
	"github.com/KinoBytes/filmtally-cli/internal/fetch"
	"github.com/KinoBytes/filmtally-cli/internal/store"
	"github.com/KinoBytes/filmtally-cli/internal/utils"
)

var (
	runFull  bool
	runForce bool
	runSave  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the dataset, tally colors, and answer the question set",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		if err := cfgpkg.EnsureDirs(c); err != nil {
			return err
		}
		start := time.Now()

		f := fetch.New(c, logger)
		path, err := f.Fetch(cmd.Context(), runForce)
		if err != nil {
			return err
		}

		t, err := dataset.Load(path)
		if err != nil {
			return err
		}
		m, err := columns.ColorMatcher(c.ColorPatterns)
		if err != nil {
			return err
		}
		rep := analysis.BuildReport(t, path, m, runFull, c.ReportTop)
		fmt.Print(rep.Console())

		if runSave != "" {
			data, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(runSave, data); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("✓ Wrote report to %s\n", runSave)
		}

		// History is best-effort: a broken store never fails the run.
		st, err := store.Open(c.HistoryDB)
		if err != nil {
			logger.Warn("history store unavailable", zap.Error(err))
			return nil
		}
		defer st.Close()
		rec := &store.Run{
			Dataset:       path,
			Rows:          rep.Rows,
			ColorColumn:   rep.ColorColumn,
			Color:         rep.Tally.Color,
			BlackAndWhite: rep.Tally.BlackAndWhite,
			Unknown:       rep.Tally.Unknown,
			DurationMS:    time.Since(start).Milliseconds(),
		}
		if err := st.RecordRun(rec); err != nil {
			logger.Warn("failed to record run", zap.Error(err))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runFull, "full", true, "answer the full question set (disable for the tally alone)")
	runCmd.Flags().BoolVar(&runForce, "force", false, "re-download even when a cached dataset exists")
	runCmd.Flags().StringVarP(&runSave, "save", "o", "", "optional path to write the report as JSON")
}
