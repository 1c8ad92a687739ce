package descriptor

import (
	"github.com/YuminosukeSato/moldesc/chem/smiles"
)

var conjugationGroup = group{
	name: "conjugation",
	names: []string{
		"nPiSystem", "LargestPiSystem", "nConjugatedBond", "PiAtomFraction",
	},
	compute: computeConjugation,
}

// computeConjugation groups atoms into pi systems. An atom takes part when it has a
// multiple or aromatic bond, or when it is N, O or S bonded to such an atom (lone
// pair donation). Pi atoms joined by a bond belong to the same system.
func computeConjugation(v *view) []any {
	m := v.mol
	unsaturated := make([]bool, v.n)
	for _, b := range m.Bonds {
		if b.Type != smiles.Single {
			unsaturated[b.From] = true
			unsaturated[b.To] = true
		}
	}
	pi := append([]bool(nil), unsaturated...)
	for i, a := range m.Atoms {
		if pi[i] {
			continue
		}
		switch a.Symbol() {
		case "N", "O", "S":
			for _, j := range m.Neighbors(i) {
				if unsaturated[j] {
					pi[i] = true
					break
				}
			}
		}
	}

	parent := make([]int, v.n)
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	conjugatedBonds := 0
	for _, b := range m.Bonds {
		if pi[b.From] && pi[b.To] {
			parent[find(b.From)] = find(b.To)
			conjugatedBonds++
		}
	}

	sizes := make(map[int]int)
	piAtoms := 0
	for i := range pi {
		if pi[i] {
			sizes[find(i)]++
			piAtoms++
		}
	}
	systems, largest := 0, 0
	for _, s := range sizes {
		if s < 2 {
			continue
		}
		systems++
		if s > largest {
			largest = s
		}
	}

	return []any{
		systems, largest, conjugatedBonds,
		ratio("PiAtomFraction", float64(piAtoms), float64(m.HeavyAtomCount()), "no heavy atoms"),
	}
}
