package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"souzoku/internal/inheritance"
	"souzoku/internal/interview"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "対話形式でケース情報を収集して相続計算を実行",
	Long: `質問に答えていくことで相続ケースの情報を収集し、完了後に
相続計算を実行して結果を表示します。

SOUZOKU_OPENAI_API_KEY を設定すると、自由記述の回答からの氏名抽出に
言語モデルを使用します。未設定時は区切り文字による抽出を行います。`,
	Args: cobra.NoArgs,
	RunE: runInterview,
}

func init() {
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, args []string) error {
	session := interview.NewSession(cliExtractor())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, session.Start())
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for !session.Completed() && scanner.Scan() {
		reply, err := session.Respond(cmd.Context(), scanner.Text())
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, reply)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if !session.Completed() {
		// EOF before the interview finished.
		return nil
	}

	input, err := session.Input()
	if err != nil {
		return err
	}
	displayResult(out, inheritance.Calculate(input))
	return nil
}

// cliExtractor picks the name extractor from configuration, falling back to
// rule-based splitting when no API key is available.
func cliExtractor() interview.NameExtractor {
	apiKey := viper.GetString("openai_api_key")
	if apiKey == "" {
		return nil
	}
	extractor, err := interview.NewOpenAIExtractor(apiKey, viper.GetString("openai_model"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "LLM抽出を無効化します: %v\n", err)
		return nil
	}
	return extractor
}
