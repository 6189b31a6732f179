package inheritance

import "math/big"

// Heir is one entry in a calculation result: a person together with the rank
// under which they inherit and their exact share of the estate.
//
// Invariants:
//   - Share is an exact rational in [0, 1]
//   - Substitution is non-none only for first- and third-rank heirs
//   - Retransfer entries reference the original heir and that heir's
//     pre-retransfer share
type Heir struct {
	Person Person
	Rank   HeritageRank
	Share  *big.Rat

	Substitution  SubstitutionKind
	SubstituteFor *Person

	Retransfer     bool
	RetransferFrom *Person
	OriginalShare  *big.Rat
}

// SharePercentage returns the share as a percentage for display. The
// canonical value is always the exact rational Share.
func (h Heir) SharePercentage() float64 {
	if h.Share == nil {
		return 0
	}
	f, _ := h.Share.Float64()
	return f * 100
}

// Result is the outcome of one inheritance calculation.
//
// Heirs are ordered spouse, first, second, third, with retransfer entries
// replacing their originals in place. CalculationBasis lists the statutory
// citations for the rules that fired, in firing order, without duplicates.
type Result struct {
	Decedent Person
	Heirs    []Heir

	HasSpouse   bool
	HasChildren bool
	HasParents  bool
	HasSiblings bool

	CalculationBasis []string
}

// TotalHeirs returns the number of heir entries.
func (r *Result) TotalHeirs() int {
	return len(r.Heirs)
}

// HeirsByRank returns the heirs of a single rank in result order.
func (r *Result) HeirsByRank(rank HeritageRank) []Heir {
	var out []Heir
	for _, h := range r.Heirs {
		if h.Rank == rank {
			out = append(out, h)
		}
	}
	return out
}

// TotalShare sums all heir shares exactly. For any non-empty result the sum
// is exactly 1/1.
func (r *Result) TotalShare() *big.Rat {
	total := new(big.Rat)
	for _, h := range r.Heirs {
		total.Add(total, h.Share)
	}
	return total
}

func (r *Result) addBasis(basis string) {
	for _, b := range r.CalculationBasis {
		if b == basis {
			return
		}
	}
	r.CalculationBasis = append(r.CalculationBasis, basis)
}
