package caseio

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"souzoku/internal/inheritance"
	domainerrors "souzoku/pkg/domain-errors"
)

// File is the YAML intake document. Unlike the flat CSV, it can nest
// representatives under a failed heir and retransfer successors under a
// died-before-division heir.
type File struct {
	Title    string       `yaml:"title"`
	Decedent PersonSpec   `yaml:"decedent"`
	Spouses  []PersonSpec `yaml:"spouses"`
	Children []PersonSpec `yaml:"children"`
	Parents  []PersonSpec `yaml:"parents"`
	Siblings []PersonSpec `yaml:"siblings"`
}

// PersonSpec is one person entry. Excluded takes renounced, disqualified,
// or disinherited; Blood applies to siblings only.
type PersonSpec struct {
	Name               string       `yaml:"name"`
	IsAlive            bool         `yaml:"is_alive"`
	BirthDate          string       `yaml:"birth_date"`
	DeathDate          string       `yaml:"death_date"`
	Blood              string       `yaml:"blood"`
	Excluded           string       `yaml:"excluded"`
	DiedBeforeDivision bool         `yaml:"died_before_division"`
	Representatives    []PersonSpec `yaml:"representatives"`
	RetransferTo       []PersonSpec `yaml:"retransfer_to"`
}

// LoadYAML reads a YAML intake document and builds engine input, expanding
// representation lines: unlimited depth for children, one generation for
// siblings. Renunciation blocks representation.
func LoadYAML(r io.Reader) (inheritance.Input, error) {
	var file File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return inheritance.Input{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "decode yaml")
	}
	return file.ToInput()
}

// ToInput converts the document into engine input.
func (f File) ToInput() (inheritance.Input, error) {
	if strings.TrimSpace(f.Decedent.Name) == "" {
		return inheritance.Input{}, domainerrors.New(domainerrors.CodeBadRequest, "decedent name is required")
	}

	b := &yamlBuilder{
		input: inheritance.Input{
			SiblingBloodRelations: map[uuid.UUID]inheritance.BloodRelation{},
			Substitutions:         map[uuid.UUID]inheritance.Substitution{},
			RetransferTargets:     map[uuid.UUID][]inheritance.Person{},
		},
	}

	decedent, err := b.person(f.Decedent)
	if err != nil {
		return inheritance.Input{}, err
	}
	decedent.IsDecedent = true
	decedent.IsAlive = false
	b.input.Decedent = decedent

	for _, spec := range f.Spouses {
		person, err := b.person(spec)
		if err != nil {
			return inheritance.Input{}, err
		}
		if b.claimant(person) {
			b.input.Spouses = append(b.input.Spouses, person)
			if err := b.retransfer(person, spec); err != nil {
				return inheritance.Input{}, err
			}
		}
	}
	for _, spec := range f.Children {
		if err := b.expandChildLine(spec); err != nil {
			return inheritance.Input{}, err
		}
	}
	for _, spec := range f.Parents {
		person, err := b.person(spec)
		if err != nil {
			return inheritance.Input{}, err
		}
		if b.claimant(person) {
			b.input.Parents = append(b.input.Parents, person)
			if err := b.retransfer(person, spec); err != nil {
				return inheritance.Input{}, err
			}
		}
	}
	for _, spec := range f.Siblings {
		if err := b.expandSiblingLine(spec); err != nil {
			return inheritance.Input{}, err
		}
	}

	return b.input, nil
}

type yamlBuilder struct {
	input inheritance.Input
}

// person materializes a spec, recording its exclusion if any.
func (b *yamlBuilder) person(spec PersonSpec) (inheritance.Person, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return inheritance.Person{}, domainerrors.New(domainerrors.CodeBadRequest, "person name is required")
	}
	birth, err := parseDate(spec.BirthDate)
	if err != nil {
		return inheritance.Person{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest, spec.Name)
	}
	death, err := parseDate(spec.DeathDate)
	if err != nil {
		return inheritance.Person{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest, spec.Name)
	}

	person := newPerson(spec.Name, spec.IsAlive, birth, death)
	person.DiedBeforeDivision = spec.DiedBeforeDivision

	switch strings.ToLower(strings.TrimSpace(spec.Excluded)) {
	case "":
	case "renounced":
		b.input.Renounced = append(b.input.Renounced, person)
	case "disqualified":
		b.input.Disqualified = append(b.input.Disqualified, person)
	case "disinherited":
		b.input.Disinherited = append(b.input.Disinherited, person)
	default:
		return inheritance.Person{}, domainerrors.New(domainerrors.CodeBadRequest,
			fmt.Sprintf("invalid exclusion for %s: %s", spec.Name, spec.Excluded))
	}
	return person, nil
}

// claimant reports whether the person survived the decedent. A person who
// died before the estate division still inherited at the moment of death.
func (b *yamlBuilder) claimant(p inheritance.Person) bool {
	return p.IsAlive || p.DiedBeforeDivision
}

func excludedKind(spec PersonSpec) string {
	return strings.ToLower(strings.TrimSpace(spec.Excluded))
}

// representable reports whether a failed heir's line may pass to
// representatives. Renunciation closes the line.
func representable(spec PersonSpec) bool {
	return excludedKind(spec) != "renounced"
}

func (b *yamlBuilder) retransfer(person inheritance.Person, spec PersonSpec) error {
	for _, target := range spec.RetransferTo {
		birth, err := parseDate(target.BirthDate)
		if err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeBadRequest, target.Name)
		}
		death, err := parseDate(target.DeathDate)
		if err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeBadRequest, target.Name)
		}
		b.input.RetransferTargets[person.ID] = append(b.input.RetransferTargets[person.ID],
			newPerson(target.Name, target.IsAlive, birth, death))
	}
	return nil
}

func (b *yamlBuilder) expandChildLine(spec PersonSpec) error {
	person, err := b.person(spec)
	if err != nil {
		return err
	}
	if b.claimant(person) && excludedKind(spec) == "" {
		b.input.Children = append(b.input.Children, person)
		return b.retransfer(person, spec)
	}
	if !representable(spec) {
		return nil
	}
	for _, repSpec := range spec.Representatives {
		rep, err := b.person(repSpec)
		if err != nil {
			return err
		}
		if b.claimant(rep) && excludedKind(repSpec) == "" {
			b.input.Children = append(b.input.Children, rep)
			b.input.Substitutions[rep.ID] = inheritance.Substitution{For: person}
			if err := b.retransfer(rep, repSpec); err != nil {
				return err
			}
			continue
		}
		// The line keeps descending while representatives have failed too.
		if err := b.expandChildLine(repSpec); err != nil {
			return err
		}
	}
	return nil
}

func (b *yamlBuilder) expandSiblingLine(spec PersonSpec) error {
	person, err := b.person(spec)
	if err != nil {
		return err
	}
	blood, err := parseBlood(spec.Blood, spec.Name)
	if err != nil {
		return err
	}
	if b.claimant(person) && excludedKind(spec) == "" {
		b.input.Siblings = append(b.input.Siblings, person)
		b.input.SiblingBloodRelations[person.ID] = blood
		return b.retransfer(person, spec)
	}
	if !representable(spec) {
		return nil
	}
	// Sibling-line representation stops after one generation.
	for _, repSpec := range spec.Representatives {
		rep, err := b.person(repSpec)
		if err != nil {
			return err
		}
		if !b.claimant(rep) || excludedKind(repSpec) != "" {
			continue
		}
		b.input.Siblings = append(b.input.Siblings, rep)
		b.input.SiblingBloodRelations[rep.ID] = blood
		b.input.Substitutions[rep.ID] = inheritance.Substitution{For: person}
		if err := b.retransfer(rep, repSpec); err != nil {
			return err
		}
	}
	return nil
}
