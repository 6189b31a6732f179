package inheritance

import (
	"math/big"

	"github.com/google/uuid"
)

// Sibling weights for the 2:1 full/half split at the third rank.
const (
	fullBloodWeight = 2
	halfBloodWeight = 1
)

// calculateShares partitions the unit estate across the validated heir sets.
//
// The statutory partition table, keyed by which blood rank is populated
// (spouse presence is orthogonal):
//
//	spouse + children:  spouse 1/2, children 1/2 split equally
//	spouse + parents:   spouse 2/3, ascendants 1/3 split equally
//	spouse + siblings:  spouse 3/4, siblings 1/4 split by blood weight
//	spouse only:        spouse 1
//	single blood rank:  rank takes 1, split per the same intra-rank rule
//
// All arithmetic is exact; denominators are products of small integers so
// the shares of a non-empty result always sum to exactly 1. Callers must
// not invoke with zero heirs across all four sets.
func calculateShares(spouses, children, parents, siblings []Person, bloods map[uuid.UUID]BloodRelation) map[uuid.UUID]*big.Rat {
	shares := make(map[uuid.UUID]*big.Rat)

	spouseTotal, bloodTotal := partitionTotals(len(spouses) > 0, len(children) > 0, len(parents) > 0, len(siblings) > 0)

	if len(spouses) > 0 {
		splitEqually(shares, spouses, spouseTotal)
	}

	switch {
	case len(children) > 0:
		splitEqually(shares, children, bloodTotal)
	case len(parents) > 0:
		splitEqually(shares, parents, bloodTotal)
	case len(siblings) > 0:
		splitByBlood(shares, siblings, bloods, bloodTotal)
	}

	return shares
}

// partitionTotals returns the spouse-side and blood-rank-side totals of the
// statutory partition.
func partitionTotals(hasSpouse, hasChildren, hasParents, hasSiblings bool) (spouse, blood *big.Rat) {
	if !hasSpouse {
		return new(big.Rat), big.NewRat(1, 1)
	}
	switch {
	case hasChildren:
		return big.NewRat(1, 2), big.NewRat(1, 2)
	case hasParents:
		return big.NewRat(2, 3), big.NewRat(1, 3)
	case hasSiblings:
		return big.NewRat(3, 4), big.NewRat(1, 4)
	default:
		return big.NewRat(1, 1), new(big.Rat)
	}
}

func splitEqually(shares map[uuid.UUID]*big.Rat, persons []Person, total *big.Rat) {
	n := int64(len(persons))
	each := new(big.Rat).Mul(total, big.NewRat(1, n))
	for _, p := range persons {
		shares[p.ID] = new(big.Rat).Set(each)
	}
}

// splitByBlood divides the rank total among siblings weighted 2:1 for
// full- versus half-blood relation. Absent map entries default to full.
func splitByBlood(shares map[uuid.UUID]*big.Rat, siblings []Person, bloods map[uuid.UUID]BloodRelation, total *big.Rat) {
	var weightSum int64
	for _, s := range siblings {
		weightSum += int64(bloodWeight(bloods[s.ID]))
	}
	for _, s := range siblings {
		w := int64(bloodWeight(bloods[s.ID]))
		share := new(big.Rat).Mul(total, big.NewRat(w, weightSum))
		shares[s.ID] = share
	}
}

func bloodWeight(b BloodRelation) int {
	if b == BloodHalf {
		return halfBloodWeight
	}
	return fullBloodWeight
}
