package caseio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"souzoku/internal/inheritance"
	domainerrors "souzoku/pkg/domain-errors"
)

// role, name, and is_alive must appear in the header; the rest are optional.
var requiredColumns = []string{"role", "name", "is_alive"}

// LoadCSV reads a flat intake CSV and builds engine input. Exactly one row
// must carry the decedent role; representation and retransfer are not
// expressible in the flat layout.
func LoadCSV(r io.Reader) (inheritance.Input, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return inheritance.Input{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "read csv header")
	}
	// Strip a UTF-8 BOM written by spreadsheet exports.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := col[required]; !ok {
			return inheritance.Input{}, domainerrors.New(domainerrors.CodeBadRequest,
				fmt.Sprintf("missing required csv column %q", required))
		}
	}

	cell := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	input := inheritance.Input{
		SiblingBloodRelations: map[uuid.UUID]inheritance.BloodRelation{},
	}
	var haveDecedent bool

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return inheritance.Input{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest,
				fmt.Sprintf("read csv line %d", line))
		}

		role := strings.ToLower(strings.TrimSpace(cell(record, "role")))
		name := strings.TrimSpace(cell(record, "name"))
		if name == "" {
			return inheritance.Input{}, domainerrors.New(domainerrors.CodeBadRequest,
				fmt.Sprintf("line %d: name is required", line))
		}

		alive, err := parseBool(cell(record, "is_alive"))
		if err != nil {
			return inheritance.Input{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest,
				fmt.Sprintf("line %d", line))
		}
		birth, err := parseDate(cell(record, "birth_date"))
		if err != nil {
			return inheritance.Input{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest,
				fmt.Sprintf("line %d", line))
		}
		death, err := parseDate(cell(record, "death_date"))
		if err != nil {
			return inheritance.Input{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest,
				fmt.Sprintf("line %d", line))
		}

		if role == "decedent" {
			if haveDecedent {
				return inheritance.Input{}, domainerrors.New(domainerrors.CodeBadRequest,
					"multiple decedent rows")
			}
			haveDecedent = true
			person := newPerson(name, false, birth, death)
			person.IsDecedent = true
			input.Decedent = person
			continue
		}

		person := newPerson(name, alive, birth, death)

		switch role {
		case "spouse":
			input.Spouses = append(input.Spouses, person)
		case "child":
			input.Children = append(input.Children, person)
		case "parent":
			input.Parents = append(input.Parents, person)
		case "sibling":
			input.Siblings = append(input.Siblings, person)
			blood, err := parseBlood(cell(record, "blood_type"), name)
			if err != nil {
				return inheritance.Input{}, err
			}
			input.SiblingBloodRelations[person.ID] = blood
		default:
			return inheritance.Input{}, domainerrors.New(domainerrors.CodeBadRequest,
				fmt.Sprintf("line %d: invalid role %q", line, role))
		}

		renouncedCell := cell(record, "is_renounced")
		if strings.TrimSpace(renouncedCell) != "" {
			renounced, err := parseBool(renouncedCell)
			if err != nil {
				return inheritance.Input{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest,
					fmt.Sprintf("line %d", line))
			}
			if renounced {
				input.Renounced = append(input.Renounced, person)
			}
		}
	}

	if !haveDecedent {
		return inheritance.Input{}, domainerrors.New(domainerrors.CodeBadRequest,
			"decedent row is required")
	}
	return input, nil
}
