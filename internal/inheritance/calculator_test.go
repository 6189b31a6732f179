package inheritance

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newDecedent(name string) Person {
	return Person{ID: uuid.New(), Name: name, IsDecedent: true}
}

func requireShare(t *testing.T, h Heir, num, den int64) {
	t.Helper()
	require.Zerof(t, h.Share.Cmp(big.NewRat(num, den)),
		"heir %s: share %s, want %d/%d", h.Person.Name, h.Share.RatString(), num, den)
}

func requireUnitTotal(t *testing.T, result *Result) {
	t.Helper()
	require.Zero(t, result.TotalShare().Cmp(big.NewRat(1, 1)),
		"heir shares must sum to exactly 1, got %s", result.TotalShare().RatString())
}

func TestCalculateSpouseAndChildren(t *testing.T) {
	spouse := newPerson("配偶者")
	children := newPersons("長男", "長女")

	result := Calculate(Input{
		Decedent: newDecedent("被相続人"),
		Spouses:  []Person{spouse},
		Children: children,
	})

	require.Equal(t, 3, result.TotalHeirs())
	require.True(t, result.HasSpouse)
	require.True(t, result.HasChildren)
	require.False(t, result.HasParents)
	require.False(t, result.HasSiblings)

	requireShare(t, result.HeirsByRank(RankSpouse)[0], 1, 2)
	for _, h := range result.HeirsByRank(RankFirst) {
		requireShare(t, h, 1, 4)
	}
	requireUnitTotal(t, result)

	require.Equal(t, []string{
		BasisSpouseRight,
		BasisChildrenRight,
		BasisSpouseAndChildren,
	}, result.CalculationBasis)
}

func TestCalculateSpouseOnly(t *testing.T) {
	spouse := newPerson("配偶者")

	result := Calculate(Input{
		Decedent: newDecedent("被相続人"),
		Spouses:  []Person{spouse},
	})

	require.Equal(t, 1, result.TotalHeirs())
	requireShare(t, result.Heirs[0], 1, 1)
	require.Equal(t, []string{BasisSpouseRight}, result.CalculationBasis)
	requireUnitTotal(t, result)
}

func TestCalculateSpouseAndAscendants(t *testing.T) {
	spouse := newPerson("配偶者")
	parents := newPersons("父", "母")

	result := Calculate(Input{
		Decedent: newDecedent("被相続人"),
		Spouses:  []Person{spouse},
		Parents:  parents,
	})

	requireShare(t, result.HeirsByRank(RankSpouse)[0], 2, 3)
	for _, h := range result.HeirsByRank(RankSecond) {
		requireShare(t, h, 1, 6)
	}
	require.Contains(t, result.CalculationBasis, BasisParentsRight)
	require.Contains(t, result.CalculationBasis, BasisSpouseAndParents)
	requireUnitTotal(t, result)
}

func TestCalculateSpouseAndMixedBloodSiblings(t *testing.T) {
	spouse := newPerson("配偶者")
	full := newPerson("兄")
	half := newPerson("異母弟")

	result := Calculate(Input{
		Decedent: newDecedent("被相続人"),
		Spouses:  []Person{spouse},
		Siblings: []Person{full, half},
		SiblingBloodRelations: map[uuid.UUID]BloodRelation{
			full.ID: BloodFull,
			half.ID: BloodHalf,
		},
	})

	requireShare(t, result.HeirsByRank(RankSpouse)[0], 3, 4)
	siblings := result.HeirsByRank(RankThird)
	requireShare(t, siblings[0], 1, 6)
	requireShare(t, siblings[1], 1, 12)
	require.Contains(t, result.CalculationBasis, BasisSpouseAndSiblings)
	requireUnitTotal(t, result)
}

func TestRankExhaustion(t *testing.T) {
	t.Run("children exclude ascendants and siblings", func(t *testing.T) {
		result := Calculate(Input{
			Decedent: newDecedent("被相続人"),
			Children: newPersons("長男"),
			Parents:  newPersons("父"),
			Siblings: newPersons("妹"),
		})

		require.True(t, result.HasChildren)
		require.False(t, result.HasParents)
		require.False(t, result.HasSiblings)
		require.Equal(t, 1, result.TotalHeirs())
		requireUnitTotal(t, result)
	})

	t.Run("ascendants exclude siblings", func(t *testing.T) {
		result := Calculate(Input{
			Decedent: newDecedent("被相続人"),
			Parents:  newPersons("母"),
			Siblings: newPersons("妹"),
		})

		require.True(t, result.HasParents)
		require.False(t, result.HasSiblings)
		requireUnitTotal(t, result)
	})

	t.Run("spouse is never excluded by blood ranks", func(t *testing.T) {
		spouse := newPerson("配偶者")
		result := Calculate(Input{
			Decedent: newDecedent("被相続人"),
			Spouses:  []Person{spouse},
			Children: newPersons("長男"),
		})

		require.True(t, result.HasSpouse)
		require.True(t, result.HasChildren)
	})
}

func TestExclusionUnblocksLowerRank(t *testing.T) {
	// Renunciation by every child both empties the first rank and lets the
	// ascendants inherit.
	spouse := newPerson("配偶者")
	children := newPersons("長男", "長女")
	parents := newPersons("父", "母")

	result := Calculate(Input{
		Decedent:  newDecedent("被相続人"),
		Spouses:   []Person{spouse},
		Children:  children,
		Parents:   parents,
		Renounced: children,
	})

	require.False(t, result.HasChildren)
	require.True(t, result.HasParents)
	requireShare(t, result.HeirsByRank(RankSpouse)[0], 2, 3)
	for _, h := range result.HeirsByRank(RankSecond) {
		requireShare(t, h, 1, 6)
	}
	require.NotContains(t, result.CalculationBasis, BasisChildrenRight)
	requireUnitTotal(t, result)
}

func TestAllExclusionMechanismsRemoveEligibility(t *testing.T) {
	decedent := newDecedent("被相続人")
	renounced := newPerson("放棄者")
	disqualified := newPerson("欠格者")
	disinherited := newPerson("廃除者")
	remaining := newPerson("長女")

	result := Calculate(Input{
		Decedent:     decedent,
		Children:     []Person{renounced, disqualified, disinherited, remaining},
		Renounced:    []Person{renounced},
		Disqualified: []Person{disqualified},
		Disinherited: []Person{disinherited},
	})

	require.Equal(t, 1, result.TotalHeirs())
	require.Equal(t, remaining.ID, result.Heirs[0].Person.ID)
	requireShare(t, result.Heirs[0], 1, 1)
}

func TestChildLineSubstitution(t *testing.T) {
	// A predeceased child pre-expanded into two grandchildren: together they
	// hold exactly the child's notional share, each flagged child-line.
	spouse := newPerson("配偶者")
	predeceased := Person{ID: uuid.New(), Name: "長男", IsAlive: false}
	grandchildren := newPersons("孫1", "孫2")

	result := Calculate(Input{
		Decedent: newDecedent("被相続人"),
		Spouses:  []Person{spouse},
		Children: grandchildren,
		Substitutions: map[uuid.UUID]Substitution{
			grandchildren[0].ID: {For: predeceased},
			grandchildren[1].ID: {For: predeceased},
		},
	})

	requireShare(t, result.HeirsByRank(RankSpouse)[0], 1, 2)

	combined := new(big.Rat)
	for _, h := range result.HeirsByRank(RankFirst) {
		requireShare(t, h, 1, 4)
		require.Equal(t, SubstitutionChild, h.Substitution)
		require.NotNil(t, h.SubstituteFor)
		require.Equal(t, predeceased.ID, h.SubstituteFor.ID)
		combined.Add(combined, h.Share)
	}
	// The two representatives together hold exactly the predeceased child's
	// notional half.
	require.Zero(t, combined.Cmp(big.NewRat(1, 2)))
	require.Contains(t, result.CalculationBasis, BasisChildSubstitution)
	requireUnitTotal(t, result)
}

func TestSiblingLineSubstitution(t *testing.T) {
	predeceased := Person{ID: uuid.New(), Name: "兄", IsAlive: false}
	nephew := newPerson("甥")

	result := Calculate(Input{
		Decedent: newDecedent("被相続人"),
		Siblings: []Person{nephew},
		Substitutions: map[uuid.UUID]Substitution{
			nephew.ID: {For: predeceased},
		},
	})

	require.Equal(t, 1, result.TotalHeirs())
	require.Equal(t, SubstitutionSibling, result.Heirs[0].Substitution)
	require.Contains(t, result.CalculationBasis, BasisSiblingSubstitution)
	requireUnitTotal(t, result)
}

func TestRetransferSplitsShareAmongTargets(t *testing.T) {
	spouse := newPerson("配偶者")
	deceased := Person{ID: uuid.New(), Name: "長男", IsAlive: false, DiedBeforeDivision: true}
	targets := newPersons("長男の妻", "長男の子")

	result := Calculate(Input{
		Decedent: newDecedent("被相続人"),
		Spouses:  []Person{spouse},
		Children: []Person{deceased},
		RetransferTargets: map[uuid.UUID][]Person{
			deceased.ID: targets,
		},
	})

	require.Equal(t, 3, result.TotalHeirs())
	require.Contains(t, result.CalculationBasis, BasisRetransfer)

	var retransferred []Heir
	for _, h := range result.Heirs {
		if h.Retransfer {
			retransferred = append(retransferred, h)
		}
	}
	require.Len(t, retransferred, 2)
	for _, h := range retransferred {
		requireShare(t, h, 1, 4)
		require.NotNil(t, h.RetransferFrom)
		require.Equal(t, deceased.ID, h.RetransferFrom.ID)
		require.Zero(t, h.OriginalShare.Cmp(big.NewRat(1, 2)))
		require.Equal(t, RankFirst, h.Rank)
	}
	requireUnitTotal(t, result)
}

func TestRetransferWithoutTargetsKeepsHeir(t *testing.T) {
	deceased := Person{ID: uuid.New(), Name: "長男", IsAlive: false, DiedBeforeDivision: true}
	other := Person{ID: uuid.New(), Name: "次男", IsAlive: false, DiedBeforeDivision: true}
	targets := newPersons("次男の子")

	result := Calculate(Input{
		Decedent: newDecedent("被相続人"),
		Children: []Person{deceased, other},
		RetransferTargets: map[uuid.UUID][]Person{
			other.ID: targets,
		},
	})

	require.Equal(t, 2, result.TotalHeirs())
	var kept, routed int
	for _, h := range result.Heirs {
		if h.Retransfer {
			routed++
			requireShare(t, h, 1, 2)
		} else {
			kept++
			require.Equal(t, deceased.ID, h.Person.ID)
			requireShare(t, h, 1, 2)
		}
	}
	require.Equal(t, 1, kept)
	require.Equal(t, 1, routed)
	requireUnitTotal(t, result)
}

func TestRetransferIgnoredWhenNoHeirFlagged(t *testing.T) {
	child := newPerson("長男")

	result := Calculate(Input{
		Decedent: newDecedent("被相続人"),
		Children: []Person{child},
		RetransferTargets: map[uuid.UUID][]Person{
			uuid.New(): newPersons("無関係"),
		},
	})

	require.Equal(t, 1, result.TotalHeirs())
	require.NotContains(t, result.CalculationBasis, BasisRetransfer)
}

func TestEmptyInputYieldsEmptyResult(t *testing.T) {
	result := Calculate(Input{Decedent: newDecedent("被相続人")})

	require.Zero(t, result.TotalHeirs())
	require.Empty(t, result.CalculationBasis)
	require.False(t, result.HasSpouse)
}

func TestCitationDeduplication(t *testing.T) {
	spouses := newPersons("配偶者")
	children := newPersons("c1", "c2", "c3")

	result := Calculate(Input{
		Decedent: newDecedent("被相続人"),
		Spouses:  spouses,
		Children: children,
	})

	seen := map[string]int{}
	for _, b := range result.CalculationBasis {
		seen[b]++
	}
	for basis, n := range seen {
		require.Equalf(t, 1, n, "citation %q appears %d times", basis, n)
	}
}

func TestSharePercentageIsDerivedOnly(t *testing.T) {
	h := Heir{Share: big.NewRat(1, 3)}
	require.InDelta(t, 33.333, h.SharePercentage(), 0.001)

	var empty Heir
	require.Zero(t, empty.SharePercentage())
}
