package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"souzoku/internal/era"
)

var convertFormat string

var convertDateCmd = &cobra.Command{
	Use:   "convert-date <date>",
	Short: "元号と西暦を相互変換",
	Long: `日付の形式を自動判定し、元号形式（令和5年10月3日、R5.10.3）と
西暦形式（2023-10-03）を相互に変換します。

Example:
  souzoku convert-date 令和5年10月3日
  souzoku convert-date 2023-10-03 --format short`,
	Args: cobra.ExactArgs(1),
	RunE: runConvertDate,
}

func init() {
	rootCmd.AddCommand(convertDateCmd)
	convertDateCmd.Flags().StringVar(&convertFormat, "format", "long", "Japanese calendar output format (long, short, slash)")
}

func runConvertDate(cmd *cobra.Command, args []string) error {
	dateStr := args[0]
	parsed, err := era.Parse(dateStr)
	if err != nil {
		return err
	}

	var converted string
	if era.IsWestern(dateStr) {
		converted, err = era.Format(parsed, era.Style(convertFormat))
		if err != nil {
			return err
		}
	} else {
		converted = parsed.Format("2006-01-02")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", dateStr, converted)
	return nil
}
