// Package inheritance implements the statutory heir-eligibility and
// share-computation engine: given a decedent and candidate relatives it
// decides who qualifies as an heir under the civil-code ranking rules and
// computes each heir's exact fractional share of the estate.
//
// The package is pure computation. It performs no I/O, retains no state
// between calls, and represents every share as an exact rational number;
// floating point appears only in the derived display percentage.
package inheritance

import (
	"time"

	"github.com/google/uuid"
)

// Person is an immutable participant in a calculation. Instances are
// constructed by the caller before invoking Calculate and must not be
// mutated for its duration.
type Person struct {
	ID   uuid.UUID
	Name string

	IsAlive    bool
	IsDecedent bool

	// DiedBeforeDivision marks an heir who died after the decedent but
	// before the estate was divided. Only the retransfer pass reads it.
	DiedBeforeDivision bool

	// Optional, used by reporting collaborators only.
	BirthDate *time.Time
	DeathDate *time.Time
}

// BloodRelation qualifies a sibling's relation to the decedent. It affects
// weighting only at the third rank.
type BloodRelation string

const (
	// BloodFull means both parents are shared with the decedent.
	BloodFull BloodRelation = "full"
	// BloodHalf means only one parent is shared with the decedent.
	BloodHalf BloodRelation = "half"
)

// HeritageRank is the statutory priority class of an heir.
type HeritageRank string

const (
	RankSpouse HeritageRank = "spouse"
	RankFirst  HeritageRank = "first"  // children (and their representatives)
	RankSecond HeritageRank = "second" // lineal ascendants
	RankThird  HeritageRank = "third"  // siblings (and their representatives)
)

// SubstitutionKind marks whether an heir stands in for a predeceased
// original heir by representation.
type SubstitutionKind string

const (
	SubstitutionNone    SubstitutionKind = "none"
	SubstitutionChild   SubstitutionKind = "child"
	SubstitutionSibling SubstitutionKind = "sibling"
)
