package inheritance

import (
	"math/big"

	"github.com/google/uuid"
)

// Statutory citations appended to a result as the corresponding rules fire.
const (
	BasisSpouseRight         = "民法890条（配偶者の相続権）"
	BasisChildrenRight       = "民法887条1項（子の相続権）"
	BasisChildSubstitution   = "民法887条2項（代襲相続）"
	BasisParentsRight        = "民法889条1項1号（直系尊属の相続権）"
	BasisSiblingsRight       = "民法889条1項2号（兄弟姉妹の相続権）"
	BasisSiblingSubstitution = "民法889条2項（兄弟姉妹の代襲相続）"
	BasisSpouseAndChildren   = "民法900条1号（配偶者1/2、子1/2）"
	BasisSpouseAndParents    = "民法900条2号（配偶者2/3、直系尊属1/3）"
	BasisSpouseAndSiblings   = "民法900条3号（配偶者3/4、兄弟姉妹1/4）"
	BasisRetransfer          = "民法第896条（相続人の相続、再転相続）"
)

// Substitution identifies the predeceased heir a pre-expanded candidate
// stands in for.
type Substitution struct {
	For Person
}

// Input carries everything one calculation needs. Candidate lists are
// supplied per rank; predeceased children and siblings are expected to be
// already replaced by their representatives, with the replacement recorded
// in Substitutions keyed by the representative's identity.
type Input struct {
	Decedent Person

	Spouses  []Person
	Children []Person
	Parents  []Person
	Siblings []Person

	Renounced    []Person
	Disqualified []Person
	Disinherited []Person

	// SiblingBloodRelations qualifies third-rank candidates; absent entries
	// default to full blood.
	SiblingBloodRelations map[uuid.UUID]BloodRelation

	// Substitutions marks representation heirs among Children and Siblings.
	Substitutions map[uuid.UUID]Substitution

	// RetransferTargets routes the share of an heir who died before the
	// estate division to the listed successors, keyed by the deceased
	// heir's identity.
	RetransferTargets map[uuid.UUID][]Person
}

// Calculate runs the full pipeline: eligibility per rank in dependency
// order, exact share computation, heir assembly with citations, and the
// optional retransfer pass. It is a deterministic total function of its
// input and never returns an error; ill-formed inputs degrade to empty or
// unchanged results as documented in the package contract.
func Calculate(in Input) *Result {
	elig := newEligibility(in.Decedent, in.Renounced, in.Disqualified, in.Disinherited)
	result := &Result{Decedent: in.Decedent}

	var spouses []Person
	for _, s := range in.Spouses {
		if elig.spouse(s) {
			spouses = append(spouses, s)
			result.addBasis(BasisSpouseRight)
		}
	}

	var children []Person
	for _, c := range in.Children {
		if elig.child(c) {
			children = append(children, c)
		}
	}
	if len(children) > 0 {
		result.addBasis(BasisChildrenRight)
	}

	var parents []Person
	for _, p := range in.Parents {
		if elig.parent(p, len(children) > 0) {
			parents = append(parents, p)
		}
	}
	if len(parents) > 0 {
		result.addBasis(BasisParentsRight)
	}

	var siblings []Person
	for _, s := range in.Siblings {
		if elig.sibling(s, len(children) > 0, len(parents) > 0) {
			siblings = append(siblings, s)
		}
	}
	if len(siblings) > 0 {
		result.addBasis(BasisSiblingsRight)
	}

	shares := calculateShares(spouses, children, parents, siblings, in.SiblingBloodRelations)

	appendHeirs(result, spouses, RankSpouse, shares, in.Substitutions)
	appendHeirs(result, children, RankFirst, shares, in.Substitutions)
	appendHeirs(result, parents, RankSecond, shares, in.Substitutions)
	appendHeirs(result, siblings, RankThird, shares, in.Substitutions)

	result.HasSpouse = len(spouses) > 0
	result.HasChildren = len(children) > 0
	result.HasParents = len(parents) > 0
	result.HasSiblings = len(siblings) > 0

	switch {
	case result.HasSpouse && result.HasChildren:
		result.addBasis(BasisSpouseAndChildren)
	case result.HasSpouse && result.HasParents:
		result.addBasis(BasisSpouseAndParents)
	case result.HasSpouse && result.HasSiblings:
		result.addBasis(BasisSpouseAndSiblings)
	}

	if len(in.RetransferTargets) > 0 {
		applyRetransfer(result, in.RetransferTargets)
	}

	return result
}

// appendHeirs converts a validated candidate list into heir entries with
// their computed shares, marking representation heirs by rank.
func appendHeirs(result *Result, persons []Person, rank HeritageRank, shares map[uuid.UUID]*big.Rat, subs map[uuid.UUID]Substitution) {
	for _, p := range persons {
		share, ok := shares[p.ID]
		if !ok {
			share = new(big.Rat)
		}
		heir := Heir{
			Person:       p,
			Rank:         rank,
			Share:        share,
			Substitution: SubstitutionNone,
		}
		if sub, ok := subs[p.ID]; ok {
			switch rank {
			case RankFirst:
				heir.Substitution = SubstitutionChild
				result.addBasis(BasisChildSubstitution)
			case RankThird:
				heir.Substitution = SubstitutionSibling
				result.addBasis(BasisSiblingSubstitution)
			}
			if heir.Substitution != SubstitutionNone {
				substituted := sub.For
				heir.SubstituteFor = &substituted
			}
		}
		result.Heirs = append(result.Heirs, heir)
	}
}

// applyRetransfer replaces each heir who died before the estate division
// with one entry per listed successor, each holding an equal part of the
// original share. Flagged heirs without listed targets are carried over
// unchanged; the share is deliberately not redistributed among the rest.
//
// Dividing equally among the supplied targets is a documented
// simplification; the statute would apportion by each successor's own legal
// share in the deceased heir's estate.
func applyRetransfer(result *Result, targets map[uuid.UUID][]Person) {
	retransferred := false
	for _, h := range result.Heirs {
		if h.Person.DiedBeforeDivision && !h.Person.IsAlive {
			retransferred = true
			break
		}
	}
	if !retransferred {
		return
	}

	result.addBasis(BasisRetransfer)

	newHeirs := make([]Heir, 0, len(result.Heirs))
	for _, h := range result.Heirs {
		if !h.Person.DiedBeforeDivision || h.Person.IsAlive {
			newHeirs = append(newHeirs, h)
			continue
		}

		successors := targets[h.Person.ID]
		if len(successors) == 0 {
			newHeirs = append(newHeirs, h)
			continue
		}

		original := h.Person
		each := new(big.Rat).Mul(h.Share, big.NewRat(1, int64(len(successors))))
		for _, successor := range successors {
			newHeirs = append(newHeirs, Heir{
				Person:         successor,
				Rank:           h.Rank,
				Share:          new(big.Rat).Set(each),
				Substitution:   SubstitutionNone,
				Retransfer:     true,
				RetransferFrom: &original,
				OriginalShare:  new(big.Rat).Set(h.Share),
			})
		}
	}
	result.Heirs = newHeirs
}
