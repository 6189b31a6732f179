package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"souzoku/internal/inheritance"
	"souzoku/internal/report"
)

var (
	reportFormat string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "相続計算レポートを生成",
	Long: `ケースファイルから相続計算を実行し、Markdown または CSV のレポートを
生成します。

Example:
  souzoku report case.yaml
  souzoku report case.yaml --format csv -o heirs.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportFormat, "format", "markdown", "output format (markdown, csv)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output path (default: stdout)")
}

func runReport(cmd *cobra.Command, args []string) error {
	input, err := loadInput(args[0])
	if err != nil {
		return err
	}
	result := inheritance.Calculate(input)

	out := cmd.OutOrStdout()
	if reportOutput != "" {
		f, err := os.Create(reportOutput)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch strings.ToLower(reportFormat) {
	case "markdown", "md":
		return report.Markdown(out, result, time.Now())
	case "csv":
		return report.CSV(out, result)
	default:
		return fmt.Errorf("unsupported report format %q (want markdown or csv)", reportFormat)
	}
}

// writeReportFile writes a report to path, picking the format from the
// extension. Used by calculate's --output flag.
func writeReportFile(path string, result *inheritance.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return report.CSV(f, result)
	}
	return report.Markdown(f, result, time.Now())
}
