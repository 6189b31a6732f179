// Package familytree renders a case's person graph as text. Two formats are
// supported: an ASCII tree for terminals and a Mermaid graph for embedding
// in documents.
package familytree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"souzoku/internal/casefile/models"
)

type graph struct {
	decedent *models.PersonRecord
	persons  map[uuid.UUID]*models.PersonRecord
	spouses  []*models.PersonRecord
	children []*models.PersonRecord
	parents  []*models.PersonRecord
	siblings []*models.PersonRecord
	bloods   map[uuid.UUID]string
	repOf    map[uuid.UUID]uuid.UUID   // representative -> predeceased heir
	repsFor  map[uuid.UUID][]uuid.UUID // predeceased heir -> representatives
	excluded map[uuid.UUID]string      // person -> exclusion kind
}

func build(persons []*models.PersonRecord, rels []*models.Relationship) *graph {
	g := &graph{
		persons:  make(map[uuid.UUID]*models.PersonRecord, len(persons)),
		bloods:   make(map[uuid.UUID]string),
		repOf:    make(map[uuid.UUID]uuid.UUID),
		repsFor:  make(map[uuid.UUID][]uuid.UUID),
		excluded: make(map[uuid.UUID]string),
	}
	for _, p := range persons {
		g.persons[p.ID] = p
		if p.IsDecedent {
			g.decedent = p
		}
	}
	if g.decedent == nil {
		return g
	}
	for _, r := range rels {
		from, to := g.persons[r.FromPersonID], g.persons[r.ToPersonID]
		if from == nil || to == nil {
			continue
		}
		switch r.Kind {
		case models.RelationSpouseOf:
			if to.ID == g.decedent.ID {
				g.spouses = append(g.spouses, from)
			}
		case models.RelationChildOf:
			if to.ID == g.decedent.ID {
				g.children = append(g.children, from)
			}
			if from.ID == g.decedent.ID {
				g.parents = append(g.parents, to)
			}
		case models.RelationSiblingOf:
			if to.ID == g.decedent.ID {
				g.siblings = append(g.siblings, from)
				blood := r.Blood
				if blood == "" {
					blood = "full"
				}
				g.bloods[from.ID] = blood
			}
		case models.RelationRepresents:
			g.repOf[from.ID] = to.ID
			g.repsFor[to.ID] = append(g.repsFor[to.ID], from.ID)
		case models.RelationRenounced, models.RelationDisqualified, models.RelationDisinherited:
			g.excluded[from.ID] = string(r.Kind)
		}
	}
	for _, group := range []*[]*models.PersonRecord{&g.spouses, &g.children, &g.parents, &g.siblings} {
		sortByName(*group)
	}
	return g
}

func sortByName(persons []*models.PersonRecord) {
	sort.Slice(persons, func(i, j int) bool {
		if persons[i].Name == persons[j].Name {
			return persons[i].ID.String() < persons[j].ID.String()
		}
		return persons[i].Name < persons[j].Name
	})
}

// ASCII renders the family tree as indented text rooted at the decedent.
func ASCII(persons []*models.PersonRecord, rels []*models.Relationship) string {
	g := build(persons, rels)
	if g.decedent == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (被相続人)\n", g.decedent.Name)

	writeGroup(&b, g, "配偶者", g.spouses)
	writeGroup(&b, g, "子", g.children)
	writeGroup(&b, g, "直系尊属", g.parents)
	writeGroup(&b, g, "兄弟姉妹", g.siblings)
	return b.String()
}

func writeGroup(b *strings.Builder, g *graph, label string, members []*models.PersonRecord) {
	if len(members) == 0 {
		return
	}
	fmt.Fprintf(b, "├─ %s\n", label)
	for _, p := range members {
		fmt.Fprintf(b, "│  ├─ %s%s\n", p.Name, annotations(g, p))
		writeRepresentatives(b, g, p.ID, "│  │  ")
	}
}

func writeRepresentatives(b *strings.Builder, g *graph, heirID uuid.UUID, indent string) {
	reps := make([]*models.PersonRecord, 0, len(g.repsFor[heirID]))
	for _, id := range g.repsFor[heirID] {
		if p := g.persons[id]; p != nil {
			reps = append(reps, p)
		}
	}
	sortByName(reps)
	for _, rep := range reps {
		fmt.Fprintf(b, "%s├─ %s (代襲)%s\n", indent, rep.Name, annotations(g, rep))
		writeRepresentatives(b, g, rep.ID, indent+"│  ")
	}
}

func annotations(g *graph, p *models.PersonRecord) string {
	var notes []string
	if !p.IsAlive && !p.IsDecedent {
		notes = append(notes, "死亡")
	}
	if blood, ok := g.bloods[p.ID]; ok && blood == "half" {
		notes = append(notes, "半血")
	}
	switch g.excluded[p.ID] {
	case string(models.RelationRenounced):
		notes = append(notes, "相続放棄")
	case string(models.RelationDisqualified):
		notes = append(notes, "欠格")
	case string(models.RelationDisinherited):
		notes = append(notes, "廃除")
	}
	if len(notes) == 0 {
		return ""
	}
	return " [" + strings.Join(notes, "・") + "]"
}

// Mermaid renders the family tree as a Mermaid flowchart.
func Mermaid(persons []*models.PersonRecord, rels []*models.Relationship) string {
	g := build(persons, rels)
	if g.decedent == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("graph TD\n")

	ids := make(map[uuid.UUID]string, len(g.persons))
	ordered := make([]*models.PersonRecord, 0, len(g.persons))
	for _, p := range g.persons {
		ordered = append(ordered, p)
	}
	sortByName(ordered)
	for i, p := range ordered {
		ids[p.ID] = fmt.Sprintf("P%d", i)
		label := p.Name + annotations(g, p)
		if p.IsDecedent {
			fmt.Fprintf(&b, "    %s[\"%s (被相続人)\"]:::decedent\n", ids[p.ID], p.Name)
			continue
		}
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", ids[p.ID], label)
	}

	edge := func(from, to uuid.UUID, label string) {
		f, fok := ids[from]
		t, tok := ids[to]
		if fok && tok {
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", f, label, t)
		}
	}
	for _, p := range g.spouses {
		edge(p.ID, g.decedent.ID, "配偶者")
	}
	for _, p := range g.children {
		edge(p.ID, g.decedent.ID, "子")
	}
	for _, p := range g.parents {
		edge(g.decedent.ID, p.ID, "親")
	}
	for _, p := range g.siblings {
		label := "兄弟姉妹"
		if g.bloods[p.ID] == "half" {
			label = "半血兄弟姉妹"
		}
		edge(p.ID, g.decedent.ID, label)
	}
	reps := make([]uuid.UUID, 0, len(g.repOf))
	for rep := range g.repOf {
		reps = append(reps, rep)
	}
	sort.Slice(reps, func(i, j int) bool { return ids[reps[i]] < ids[reps[j]] })
	for _, rep := range reps {
		edge(rep, g.repOf[rep], "代襲")
	}

	b.WriteString("    classDef decedent fill:#f2f2f2,stroke:#333\n")
	return b.String()
}
