package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KinoBytes/filmtally-cli/internal/analysis"
	"github.com/KinoBytes/filmtally-cli/internal/columns"
	"github.com/KinoBytes/filmtally-cli/internal/dataset"
	"github.com/KinoBytes/filmtally-cli/internal/utils"
)

var (
	qTop  int
	qSave string
)

var questionsCmd = &cobra.Command{
	Use:   "questions <file>",
	Short: "Answer the full question set for a local table file",
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
		m, err := columns.ColorMatcher(c.ColorPatterns)
		if err != nil {
			return err
		}
		top := c.ReportTop
		if qTop > 0 {
			top = qTop
		}
		rep := analysis.BuildReport(t, path, m, true, top)
		fmt.Print(rep.Console())

		if qSave != "" {
			data, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(qSave, data); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("✓ Wrote report to %s\n", qSave)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	questionsCmd.Flags().IntVar(&qTop, "top", 0, "how many directors/actors to list (defaults to report_top)")
	questionsCmd.Flags().StringVarP(&qSave, "save", "o", "", "optional path to write the report as JSON")
}
