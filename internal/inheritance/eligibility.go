package inheritance

import "github.com/google/uuid"

// eligibility is the per-calculation context for heir qualification checks.
// It is built fresh inside every Calculate call and never shared, so
// concurrent calculations on independent inputs need no coordination.
//
// Exclusion is membership-based: a candidate found in any of the renounced,
// disqualified, or disinherited sets is never an heir. Unknown candidates
// default to eligible; the engine has no notion of an unknown person.
type eligibility struct {
	decedent     Person
	renounced    map[uuid.UUID]struct{}
	disqualified map[uuid.UUID]struct{}
	disinherited map[uuid.UUID]struct{}
}

func newEligibility(decedent Person, renounced, disqualified, disinherited []Person) eligibility {
	return eligibility{
		decedent:     decedent,
		renounced:    identitySet(renounced),
		disqualified: identitySet(disqualified),
		disinherited: identitySet(disinherited),
	}
}

func identitySet(persons []Person) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(persons))
	for _, p := range persons {
		set[p.ID] = struct{}{}
	}
	return set
}

func (e eligibility) excluded(p Person) bool {
	if _, ok := e.renounced[p.ID]; ok {
		return true
	}
	if _, ok := e.disqualified[p.ID]; ok {
		return true
	}
	_, ok := e.disinherited[p.ID]
	return ok
}

// spouse reports whether a spouse candidate qualifies. Survival is not
// checked here: a predeceased spouse is filtered by the caller before the
// candidate list is assembled.
func (e eligibility) spouse(p Person) bool {
	return !e.excluded(p)
}

// child reports whether a first-rank candidate qualifies. Callers are
// expected to have replaced a predeceased child with that child's own
// descendants, so every entry is treated as a direct claimant.
func (e eligibility) child(p Person) bool {
	return !e.excluded(p)
}

// parent reports whether a second-rank candidate qualifies. Any qualified
// first-rank heir exhausts the rank entirely.
func (e eligibility) parent(p Person, hasFirstRank bool) bool {
	if hasFirstRank {
		return false
	}
	return !e.excluded(p)
}

// sibling reports whether a third-rank candidate qualifies. Qualified heirs
// in either higher blood rank exhaust the rank entirely.
func (e eligibility) sibling(p Person, hasFirstRank, hasSecondRank bool) bool {
	if hasFirstRank || hasSecondRank {
		return false
	}
	return !e.excluded(p)
}
