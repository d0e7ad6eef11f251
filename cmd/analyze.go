package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KinoBytes/filmtally-cli/internal/analysis"
	"github.com/KinoBytes/filmtally-cli/internal/columns"
	"github.com/KinoBytes/filmtally-cli/internal/dataset"
	"github.com/KinoBytes/filmtally-cli/internal/utils"
)

var (
	anaColumn string
	anaSave   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Tally Color vs Black & White for a local table file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		path := args[0]
		t, err := dataset.Load(path)
		if err != nil {
			return err
		}

		var rep *analysis.Report
		if anaColumn != "" {
			if _, ok := t.ColumnIndex(anaColumn); !ok {
				return fmt.Errorf("column %q not found in %s", anaColumn, path)
			}
			rep = &analysis.Report{
				GeneratedAt: time.Now().UTC(),
				Dataset:     path,
				Rows:        t.Len(),
				ColorColumn: anaColumn,
				Tally:       analysis.TallyColors(t, anaColumn),
			}
		} else {
			m, err := columns.ColorMatcher(c.ColorPatterns)
			if err != nil {
				return err
			}
			rep = analysis.BuildReport(t, path, m, false, c.ReportTop)
		}
		fmt.Print(rep.Console())

		if anaSave != "" {
			data, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(anaSave, data); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("✓ Wrote report to %s\n", anaSave)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaColumn, "column", "", "classify this column instead of auto-detecting one")
	analyzeCmd.Flags().StringVarP(&anaSave, "save", "o", "", "optional path to write the report as JSON")
}
