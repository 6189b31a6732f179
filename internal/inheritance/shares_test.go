package inheritance

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newPerson(name string) Person {
	return Person{ID: uuid.New(), Name: name, IsAlive: true}
}

func newPersons(names ...string) []Person {
	out := make([]Person, 0, len(names))
	for _, n := range names {
		out = append(out, newPerson(n))
	}
	return out
}

func sumShares(t *testing.T, shares map[uuid.UUID]*big.Rat) *big.Rat {
	t.Helper()
	total := new(big.Rat)
	for _, s := range shares {
		total.Add(total, s)
	}
	return total
}

func TestPartitionTable(t *testing.T) {
	spouse := newPersons("spouse")
	one := big.NewRat(1, 1)

	t.Run("spouse only takes the whole estate", func(t *testing.T) {
		shares := calculateShares(spouse, nil, nil, nil, nil)
		require.Len(t, shares, 1)
		require.Zero(t, shares[spouse[0].ID].Cmp(one))
	})

	t.Run("spouse and two children split 1/2 + 1/4 each", func(t *testing.T) {
		children := newPersons("c1", "c2")
		shares := calculateShares(spouse, children, nil, nil, nil)

		require.Zero(t, shares[spouse[0].ID].Cmp(big.NewRat(1, 2)))
		require.Zero(t, shares[children[0].ID].Cmp(big.NewRat(1, 4)))
		require.Zero(t, shares[children[1].ID].Cmp(big.NewRat(1, 4)))
		require.Zero(t, sumShares(t, shares).Cmp(one))
	})

	t.Run("spouse and two ascendants split 2/3 + 1/6 each", func(t *testing.T) {
		parents := newPersons("father", "mother")
		shares := calculateShares(spouse, nil, parents, nil, nil)

		require.Zero(t, shares[spouse[0].ID].Cmp(big.NewRat(2, 3)))
		require.Zero(t, shares[parents[0].ID].Cmp(big.NewRat(1, 6)))
		require.Zero(t, shares[parents[1].ID].Cmp(big.NewRat(1, 6)))
		require.Zero(t, sumShares(t, shares).Cmp(one))
	})

	t.Run("spouse with full and half blood siblings weights 2 to 1", func(t *testing.T) {
		siblings := newPersons("full", "half")
		bloods := map[uuid.UUID]BloodRelation{
			siblings[0].ID: BloodFull,
			siblings[1].ID: BloodHalf,
		}
		shares := calculateShares(spouse, nil, nil, siblings, bloods)

		require.Zero(t, shares[spouse[0].ID].Cmp(big.NewRat(3, 4)))
		require.Zero(t, shares[siblings[0].ID].Cmp(big.NewRat(1, 6)))
		require.Zero(t, shares[siblings[1].ID].Cmp(big.NewRat(1, 12)))
		require.Zero(t, sumShares(t, shares).Cmp(one))
	})

	t.Run("children alone split the whole estate equally", func(t *testing.T) {
		children := newPersons("c1", "c2", "c3")
		shares := calculateShares(nil, children, nil, nil, nil)
		for _, c := range children {
			require.Zero(t, shares[c.ID].Cmp(big.NewRat(1, 3)))
		}
	})

	t.Run("ascendants alone split the whole estate equally", func(t *testing.T) {
		parents := newPersons("father", "mother")
		shares := calculateShares(nil, nil, parents, nil, nil)
		for _, p := range parents {
			require.Zero(t, shares[p.ID].Cmp(big.NewRat(1, 2)))
		}
	})

	t.Run("siblings alone split by blood weight", func(t *testing.T) {
		siblings := newPersons("full", "half")
		bloods := map[uuid.UUID]BloodRelation{
			siblings[0].ID: BloodFull,
			siblings[1].ID: BloodHalf,
		}
		shares := calculateShares(nil, nil, nil, siblings, bloods)

		require.Zero(t, shares[siblings[0].ID].Cmp(big.NewRat(2, 3)))
		require.Zero(t, shares[siblings[1].ID].Cmp(big.NewRat(1, 3)))
	})

	t.Run("missing blood relation entries default to full", func(t *testing.T) {
		siblings := newPersons("a", "b")
		shares := calculateShares(nil, nil, nil, siblings, nil)
		for _, s := range siblings {
			require.Zero(t, shares[s.ID].Cmp(big.NewRat(1, 2)))
		}
	})

	t.Run("no heirs yields an empty mapping", func(t *testing.T) {
		shares := calculateShares(nil, nil, nil, nil, nil)
		require.Empty(t, shares)
	})
}

func TestSharesAreIndependentValues(t *testing.T) {
	children := newPersons("c1", "c2")
	shares := calculateShares(nil, children, nil, nil, nil)

	shares[children[0].ID].Add(shares[children[0].ID], big.NewRat(1, 1))
	require.Zero(t, shares[children[1].ID].Cmp(big.NewRat(1, 2)))
}
