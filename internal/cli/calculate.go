package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"souzoku/internal/caseio"
	"souzoku/internal/inheritance"
)

var calculateOutput string

var calculateCmd = &cobra.Command{
	Use:     "calculate <file>",
	Aliases: []string{"calc"},
	Short:   "ケースファイルから相続計算を実行",
	Long: `CSV または YAML のケースファイルを読み込み、法定相続人と法定相続分を
計算して表示します。

Example:
  souzoku calculate case.yaml
  souzoku calculate intake.csv -o report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runCalculate,
}

func init() {
	rootCmd.AddCommand(calculateCmd)
	calculateCmd.Flags().StringVarP(&calculateOutput, "output", "o", "", "write a Markdown report to this path as well")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	input, err := loadInput(args[0])
	if err != nil {
		return err
	}

	result := inheritance.Calculate(input)
	displayResult(cmd.OutOrStdout(), result)

	if calculateOutput != "" {
		if err := writeReportFile(calculateOutput, result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "レポートを書き出しました: %s\n", calculateOutput)
	}
	return nil
}

// loadInput picks the parser from the file extension.
func loadInput(path string) (inheritance.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return inheritance.Input{}, fmt.Errorf("open case file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return caseio.LoadCSV(f)
	case ".yaml", ".yml":
		return caseio.LoadYAML(f)
	default:
		return inheritance.Input{}, fmt.Errorf("unsupported case file format %q (want .csv, .yaml, or .yml)", filepath.Ext(path))
	}
}

var rankNames = map[inheritance.HeritageRank]string{
	inheritance.RankSpouse: "配偶者",
	inheritance.RankFirst:  "第1順位",
	inheritance.RankSecond: "第2順位",
	inheritance.RankThird:  "第3順位",
}

var relationNames = map[inheritance.HeritageRank]string{
	inheritance.RankSpouse: "配偶者",
	inheritance.RankFirst:  "子",
	inheritance.RankSecond: "直系尊属",
	inheritance.RankThird:  "兄弟姉妹",
}

func displayResult(w io.Writer, result *inheritance.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "相続計算結果")
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "氏名\t続柄\t相続順位\t相続割合（分数）\t相続割合（%）")
	for _, heir := range result.Heirs {
		share, _ := heir.Share.Float64()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f%%\n",
			heir.Person.Name,
			heirRelation(heir),
			rankNames[heir.Rank],
			heir.Share.RatString(),
			share*100,
		)
	}
	tw.Flush()
	fmt.Fprintln(w)

	fmt.Fprintln(w, "計算根拠:")
	for _, basis := range result.CalculationBasis {
		fmt.Fprintf(w, "  • %s\n", basis)
	}
	fmt.Fprintln(w)

	yesNo := func(v bool) string {
		if v {
			return "あり"
		}
		return "なし"
	}
	fmt.Fprintln(w, "サマリー:")
	fmt.Fprintf(w, "  • 被相続人: %s\n", result.Decedent.Name)
	fmt.Fprintf(w, "  • 相続人総数: %d名\n", result.TotalHeirs())
	fmt.Fprintf(w, "  • 配偶者: %s\n", yesNo(result.HasSpouse))
	fmt.Fprintf(w, "  • 子: %s\n", yesNo(result.HasChildren))
	fmt.Fprintf(w, "  • 直系尊属: %s\n", yesNo(result.HasParents))
	fmt.Fprintf(w, "  • 兄弟姉妹: %s\n", yesNo(result.HasSiblings))
	fmt.Fprintln(w)
}

func heirRelation(h inheritance.Heir) string {
	name := relationNames[h.Rank]
	if h.Substitution != inheritance.SubstitutionNone {
		return name + "（代襲）"
	}
	if h.Retransfer {
		return name + "（再転相続）"
	}
	return name
}
