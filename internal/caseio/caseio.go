// Package caseio loads inheritance case data from CSV and YAML files and
// turns it into engine input. The CSV layout is flat (one person per row);
// YAML additionally supports representation and retransfer nesting.
package caseio

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"souzoku/internal/era"
	"souzoku/internal/inheritance"
	domainerrors "souzoku/pkg/domain-errors"
)

var trueWords = map[string]struct{}{
	"はい": {}, "yes": {}, "y": {}, "1": {}, "true": {}, "t": {}, "存命": {}, "○": {}, "◯": {},
}

var falseWords = map[string]struct{}{
	"いいえ": {}, "no": {}, "n": {}, "0": {}, "false": {}, "f": {}, "死亡": {}, "×": {},
}

// parseBool accepts the Japanese and English spellings used in intake files.
func parseBool(s string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if _, ok := trueWords[normalized]; ok {
		return true, nil
	}
	if _, ok := falseWords[normalized]; ok {
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value %q", s)
}

// parseDate validates and parses an optional date cell.
func parseDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := era.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseBlood(s, name string) (inheritance.BloodRelation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return inheritance.BloodFull, nil
	case "half":
		return inheritance.BloodHalf, nil
	}
	return "", domainerrors.New(domainerrors.CodeBadRequest,
		fmt.Sprintf("invalid blood type for %s: %s", name, s))
}

func newPerson(name string, alive bool, birth, death *time.Time) inheritance.Person {
	return inheritance.Person{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		IsAlive:   alive,
		BirthDate: birth,
		DeathDate: death,
	}
}
