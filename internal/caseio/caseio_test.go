package caseio

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"souzoku/internal/inheritance"
	domainerrors "souzoku/pkg/domain-errors"
)

const intakeCSV = `role,name,is_alive,birth_date,death_date,blood_type,is_renounced
decedent,山田太郎,いいえ,昭和30年3月10日,令和5年10月3日,,
spouse,山田花子,はい,,,,いいえ
child,山田一郎,はい,,,,いいえ
child,山田二郎,はい,,,,はい
sibling,山田三郎,はい,,,half,
`

func TestLoadCSV(t *testing.T) {
	input, err := LoadCSV(strings.NewReader(intakeCSV))
	require.NoError(t, err)

	require.Equal(t, "山田太郎", input.Decedent.Name)
	require.True(t, input.Decedent.IsDecedent)
	require.False(t, input.Decedent.IsAlive)
	require.NotNil(t, input.Decedent.BirthDate)
	require.NotNil(t, input.Decedent.DeathDate)

	require.Len(t, input.Spouses, 1)
	require.Len(t, input.Children, 2)
	require.Len(t, input.Parents, 0)
	require.Len(t, input.Siblings, 1)

	require.Len(t, input.Renounced, 1)
	require.Equal(t, "山田二郎", input.Renounced[0].Name)

	blood, ok := input.SiblingBloodRelations[input.Siblings[0].ID]
	require.True(t, ok)
	require.Equal(t, inheritance.BloodHalf, blood)
}

func TestLoadCSVFeedsEngine(t *testing.T) {
	input, err := LoadCSV(strings.NewReader(intakeCSV))
	require.NoError(t, err)

	result := inheritance.Calculate(input)
	// Spouse 1/2; the renounced child drops out, the remaining child takes 1/2.
	require.Equal(t, 2, result.TotalHeirs())
	for _, h := range result.Heirs {
		require.Zero(t, h.Share.Cmp(big.NewRat(1, 2)))
	}
}

func TestLoadCSVRejectsMissingColumns(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("name,is_alive\nfoo,yes\n"))
	require.Error(t, err)
	require.True(t, domainerrors.HasCode(err, domainerrors.CodeBadRequest))
}

func TestLoadCSVRejectsMissingDecedent(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("role,name,is_alive\nspouse,花子,はい\n"))
	require.Error(t, err)
	require.ErrorContains(t, err, "decedent")
}

func TestLoadCSVRejectsDuplicateDecedent(t *testing.T) {
	csv := "role,name,is_alive\ndecedent,一人目,いいえ\ndecedent,二人目,いいえ\n"
	_, err := LoadCSV(strings.NewReader(csv))
	require.Error(t, err)
	require.ErrorContains(t, err, "multiple decedent")
}

func TestLoadCSVRejectsInvalidRole(t *testing.T) {
	csv := "role,name,is_alive\ndecedent,被相続人,いいえ\ncousin,いとこ,はい\n"
	_, err := LoadCSV(strings.NewReader(csv))
	require.Error(t, err)
	require.ErrorContains(t, err, "invalid role")
}

func TestLoadCSVRejectsInvalidDate(t *testing.T) {
	csv := "role,name,is_alive,death_date\ndecedent,被相続人,いいえ,平成32年1月1日\n"
	_, err := LoadCSV(strings.NewReader(csv))
	require.Error(t, err)
}

func TestLoadCSVStripsBOM(t *testing.T) {
	input, err := LoadCSV(strings.NewReader("\uFEFFrole,name,is_alive\ndecedent,被相続人,いいえ\n"))
	require.NoError(t, err)
	require.Equal(t, "被相続人", input.Decedent.Name)
}

const intakeYAML = `
title: 遺産分割の件
decedent:
  name: 山田太郎
  death_date: 令和5年10月3日
spouses:
  - name: 山田花子
    is_alive: true
children:
  - name: 先立った子
    is_alive: false
    representatives:
      - name: 孫一
        is_alive: true
      - name: 孫二
        is_alive: true
`

func TestLoadYAMLExpandsChildRepresentation(t *testing.T) {
	input, err := LoadYAML(strings.NewReader(intakeYAML))
	require.NoError(t, err)

	require.Equal(t, "山田太郎", input.Decedent.Name)
	require.Len(t, input.Spouses, 1)
	require.Len(t, input.Children, 2)
	for _, child := range input.Children {
		sub, ok := input.Substitutions[child.ID]
		require.True(t, ok)
		require.Equal(t, "先立った子", sub.For.Name)
	}

	result := inheritance.Calculate(input)
	require.Equal(t, 3, result.TotalHeirs())
}

func TestLoadYAMLSiblingRepresentationOneGeneration(t *testing.T) {
	doc := `
decedent:
  name: 被相続人
siblings:
  - name: 先立った兄
    is_alive: false
    blood: half
    representatives:
      - name: 先立った甥
        is_alive: false
        representatives:
          - name: 甥の子
            is_alive: true
`
	input, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)

	// The dead nephew is skipped and his child is out of reach.
	require.Empty(t, input.Siblings)
}

func TestLoadYAMLSiblingRepresentativeKeepsBlood(t *testing.T) {
	doc := `
decedent:
  name: 被相続人
siblings:
  - name: 先立った兄
    is_alive: false
    blood: half
    representatives:
      - name: 甥
        is_alive: true
`
	input, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, input.Siblings, 1)
	require.Equal(t, inheritance.BloodHalf, input.SiblingBloodRelations[input.Siblings[0].ID])
	require.Equal(t, "先立った兄", input.Substitutions[input.Siblings[0].ID].For.Name)
}

func TestLoadYAMLRenunciationClosesLine(t *testing.T) {
	doc := `
decedent:
  name: 被相続人
children:
  - name: 放棄した子
    is_alive: true
    excluded: renounced
    representatives:
      - name: 孫
        is_alive: true
`
	input, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)

	require.Empty(t, input.Children)
	require.Len(t, input.Renounced, 1)
}

func TestLoadYAMLRetransfer(t *testing.T) {
	doc := `
decedent:
  name: 被相続人
children:
  - name: 分割前に死亡した子
    is_alive: false
    died_before_division: true
    retransfer_to:
      - name: 承継人
        is_alive: true
`
	input, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, input.Children, 1)
	heir := input.Children[0]
	require.True(t, heir.DiedBeforeDivision)
	targets := input.RetransferTargets[heir.ID]
	require.Len(t, targets, 1)
	require.Equal(t, "承継人", targets[0].Name)
}

func TestLoadYAMLRejectsBadRetransferDate(t *testing.T) {
	doc := `
decedent:
  name: 被相続人
children:
  - name: 分割前に死亡した子
    is_alive: false
    died_before_division: true
    retransfer_to:
      - name: 承継人
        is_alive: true
        death_date: 令和5年2月30日
`
	_, err := LoadYAML(strings.NewReader(doc))
	require.Error(t, err)
	require.ErrorContains(t, err, "承継人")
	require.Equal(t, domainerrors.CodeBadRequest, domainerrors.CodeOf(err))
}

func TestLoadYAMLRejectsUnknownFields(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("decedent:\n  name: x\nunknown_key: 1\n"))
	require.Error(t, err)
}

func TestLoadYAMLRejectsInvalidExclusion(t *testing.T) {
	doc := `
decedent:
  name: 被相続人
children:
  - name: 子
    is_alive: true
    excluded: banished
`
	_, err := LoadYAML(strings.NewReader(doc))
	require.Error(t, err)
	require.ErrorContains(t, err, "invalid exclusion")
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"はい", "YES", "y", "1", "true", "存命", "○"} {
		v, err := parseBool(s)
		require.NoError(t, err)
		require.True(t, v, s)
	}
	for _, s := range []string{"いいえ", "NO", "0", "false", "死亡", "×"} {
		v, err := parseBool(s)
		require.NoError(t, err)
		require.False(t, v, s)
	}
	_, err := parseBool("maybe")
	require.Error(t, err)
}
