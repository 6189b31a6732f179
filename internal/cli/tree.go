package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"souzoku/internal/casefile/models"
	"souzoku/internal/familytree"
	"souzoku/internal/inheritance"
)

var (
	treeMermaid bool
	treeOutput  string
)

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "家系図を表示",
	Long: `ケースファイルから家系図を生成します。既定ではテキストのツリーを、
--mermaid 指定時は Mermaid フローチャートを出力します。

Example:
  souzoku tree case.yaml
  souzoku tree case.yaml --mermaid -o tree.mmd`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().BoolVar(&treeMermaid, "mermaid", false, "emit a Mermaid flowchart instead of ASCII")
	treeCmd.Flags().StringVarP(&treeOutput, "output", "o", "", "output path (default: stdout)")
}

func runTree(cmd *cobra.Command, args []string) error {
	input, err := loadInput(args[0])
	if err != nil {
		return err
	}

	persons, rels := caseRecords(input)
	var rendered string
	if treeMermaid {
		rendered = familytree.Mermaid(persons, rels)
	} else {
		rendered = familytree.ASCII(persons, rels)
	}

	if treeOutput != "" {
		if err := os.WriteFile(treeOutput, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("write tree file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "家系図を書き出しました: %s\n", treeOutput)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// caseRecords converts engine input into the person and relationship records
// the tree renderers consume. Substitutes hang off the person they represent
// rather than joining their group directly.
func caseRecords(input inheritance.Input) ([]*models.PersonRecord, []*models.Relationship) {
	b := &recordBuilder{
		nodes: map[uuid.UUID]bool{},
		edges: map[string]bool{},
	}
	b.node(input.Decedent)
	decedentID := input.Decedent.ID

	for _, p := range input.Spouses {
		b.node(p)
		b.edge(p.ID, decedentID, models.RelationSpouseOf, "")
	}
	for _, p := range input.Children {
		b.node(p)
		if sub, ok := input.Substitutions[p.ID]; ok {
			b.node(sub.For)
			b.edge(p.ID, sub.For.ID, models.RelationRepresents, "")
			b.edge(sub.For.ID, decedentID, models.RelationChildOf, "")
			continue
		}
		b.edge(p.ID, decedentID, models.RelationChildOf, "")
	}
	for _, p := range input.Parents {
		b.node(p)
		b.edge(decedentID, p.ID, models.RelationChildOf, "")
	}
	for _, p := range input.Siblings {
		b.node(p)
		blood := string(input.SiblingBloodRelations[p.ID])
		if sub, ok := input.Substitutions[p.ID]; ok {
			b.node(sub.For)
			b.edge(p.ID, sub.For.ID, models.RelationRepresents, "")
			b.edge(sub.For.ID, decedentID, models.RelationSiblingOf, blood)
			continue
		}
		b.edge(p.ID, decedentID, models.RelationSiblingOf, blood)
	}

	// Exclusion edges annotate persons already placed in a group.
	exclusions := []struct {
		kind    models.RelationKind
		persons []inheritance.Person
	}{
		{models.RelationRenounced, input.Renounced},
		{models.RelationDisqualified, input.Disqualified},
		{models.RelationDisinherited, input.Disinherited},
	}
	for _, group := range exclusions {
		for _, p := range group.persons {
			if b.nodes[p.ID] {
				b.edge(p.ID, decedentID, group.kind, "")
			}
		}
	}
	return b.persons, b.rels
}

type recordBuilder struct {
	persons []*models.PersonRecord
	rels    []*models.Relationship
	nodes   map[uuid.UUID]bool
	edges   map[string]bool
}

func (b *recordBuilder) node(p inheritance.Person) {
	if b.nodes[p.ID] {
		return
	}
	b.nodes[p.ID] = true
	record := &models.PersonRecord{
		ID:                 p.ID,
		Name:               p.Name,
		IsAlive:            p.IsAlive,
		IsDecedent:         p.IsDecedent,
		DiedBeforeDivision: p.DiedBeforeDivision,
	}
	if p.BirthDate != nil {
		record.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	if p.DeathDate != nil {
		record.DeathDate = p.DeathDate.Format("2006-01-02")
	}
	b.persons = append(b.persons, record)
}

func (b *recordBuilder) edge(from, to uuid.UUID, kind models.RelationKind, blood string) {
	key := from.String() + "|" + to.String() + "|" + string(kind)
	if b.edges[key] {
		return
	}
	b.edges[key] = true
	b.rels = append(b.rels, &models.Relationship{
		FromPersonID: from,
		ToPersonID:   to,
		Kind:         kind,
		Blood:        blood,
	})
}
