// Package report renders a calculation result as a Markdown document or a
// CSV table for downstream paperwork.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"souzoku/internal/inheritance"
)

func rankLabel(rank inheritance.HeritageRank) string {
	switch rank {
	case inheritance.RankSpouse:
		return "配偶者"
	case inheritance.RankFirst:
		return "第1順位"
	case inheritance.RankSecond:
		return "第2順位"
	case inheritance.RankThird:
		return "第3順位"
	}
	return string(rank)
}

func relationLabel(h inheritance.Heir) string {
	var label string
	switch h.Rank {
	case inheritance.RankSpouse:
		label = "配偶者"
	case inheritance.RankFirst:
		label = "子"
	case inheritance.RankSecond:
		label = "直系尊属"
	case inheritance.RankThird:
		label = "兄弟姉妹"
	default:
		label = string(h.Rank)
	}
	switch h.Substitution {
	case inheritance.SubstitutionChild:
		label += "（子の代襲）"
	case inheritance.SubstitutionSibling:
		label += "（兄弟姉妹の代襲）"
	}
	if h.Retransfer {
		label += "（再転相続）"
	}
	return label
}

func yesNo(v bool) string {
	if v {
		return "あり"
	}
	return "なし"
}

// Markdown writes the result as a Markdown report. The timestamp is passed
// in so output stays deterministic for callers that pin the clock.
func Markdown(w io.Writer, result *inheritance.Result, now time.Time) error {
	var b strings.Builder

	b.WriteString("# 相続計算レポート\n\n")
	fmt.Fprintf(&b, "**作成日時**: %s\n\n", now.Format("2006年01月02日 15:04:05"))

	b.WriteString("## 被相続人情報\n\n")
	fmt.Fprintf(&b, "- **氏名**: %s\n", result.Decedent.Name)
	if result.Decedent.BirthDate != nil {
		fmt.Fprintf(&b, "- **生年月日**: %s\n", result.Decedent.BirthDate.Format("2006年01月02日"))
	}
	if result.Decedent.DeathDate != nil {
		fmt.Fprintf(&b, "- **死亡日**: %s\n", result.Decedent.DeathDate.Format("2006年01月02日"))
	}
	b.WriteString("\n")

	b.WriteString("## 相続人サマリー\n\n")
	fmt.Fprintf(&b, "- **相続人総数**: %d名\n", result.TotalHeirs())
	fmt.Fprintf(&b, "- **配偶者**: %s\n", yesNo(result.HasSpouse))
	fmt.Fprintf(&b, "- **子**: %s\n", yesNo(result.HasChildren))
	fmt.Fprintf(&b, "- **直系尊属**: %s\n", yesNo(result.HasParents))
	fmt.Fprintf(&b, "- **兄弟姉妹**: %s\n", yesNo(result.HasSiblings))
	b.WriteString("\n")

	b.WriteString("## 相続人一覧\n\n")
	b.WriteString("| 氏名 | 続柄 | 相続順位 | 相続割合（分数） | 相続割合（%） |\n")
	b.WriteString("|------|------|----------|------------------|---------------|\n")
	for _, h := range result.Heirs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %.2f%% |\n",
			h.Person.Name,
			relationLabel(h),
			rankLabel(h.Rank),
			h.Share.RatString(),
			h.SharePercentage(),
		)
	}
	b.WriteString("\n")

	b.WriteString("## 計算根拠\n\n")
	for _, basis := range result.CalculationBasis {
		fmt.Fprintf(&b, "- %s\n", basis)
	}
	b.WriteString("\n")

	b.WriteString("## 注記\n\n")
	b.WriteString("- このレポートは相続実務の補助ツールとして作成されたものです。\n")
	b.WriteString("- 実際の相続手続きは専門家（弁護士、司法書士等）に相談してください。\n")
	b.WriteString("- 計算結果は日本の民法第5編「相続」に基づいています。\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// CSV writes the heir table as CSV with a header row.
func CSV(w io.Writer, result *inheritance.Result) error {
	cw := csv.NewWriter(w)
	header := []string{
		"name", "relationship", "rank",
		"share_numerator", "share_denominator", "share_percentage",
		"is_substitute", "substitute_for", "is_retransfer",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, h := range result.Heirs {
		substituteFor := ""
		if h.SubstituteFor != nil {
			substituteFor = h.SubstituteFor.Name
		}
		record := []string{
			h.Person.Name,
			relationLabel(h),
			string(h.Rank),
			h.Share.Num().String(),
			h.Share.Denom().String(),
			strconv.FormatFloat(h.SharePercentage(), 'f', 2, 64),
			strconv.FormatBool(h.Substitution != inheritance.SubstitutionNone),
			substituteFor,
			strconv.FormatBool(h.Retransfer),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
