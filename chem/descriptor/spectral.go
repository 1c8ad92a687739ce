package descriptor

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/moldesc/chem/smiles"
)

var spectralNames = []string{
	"SpMax_A", "SpMin_A", "SpAbs_A", "EstradaIndex",
	"SpMax_L", "AlgebraicConnectivity", "LaplacianEnergy",
	"BCUTm_h", "BCUTm_l", "BCUTe_h", "BCUTe_l",
}

var spectralGroup = group{
	name:    "spectral",
	names:   spectralNames,
	compute: computeSpectral,
}

func computeSpectral(v *view) []any {
	n := v.n
	m := v.mol

	adj := mat.NewSymDense(n, nil)
	lap := mat.NewSymDense(n, nil)
	for _, b := range m.Bonds {
		adj.SetSym(b.From, b.To, 1)
		lap.SetSym(b.From, b.To, -1)
	}
	for i := 0; i < n; i++ {
		lap.SetSym(i, i, float64(v.deg[i]))
	}

	eigA, okA := eigenvalues(adj)
	eigL, okL := eigenvalues(lap)
	if !okA || !okL {
		return allUndefined(spectralNames, "eigendecomposition did not converge")
	}

	energy, estrada := 0.0, 0.0
	for _, l := range eigA {
		energy += math.Abs(l)
		estrada += math.Exp(l)
	}

	meanDeg := 2 * float64(m.NumBonds()) / float64(n)
	lapEnergy := 0.0
	for _, mu := range eigL {
		lapEnergy += math.Abs(mu - meanDeg)
	}
	var algebraic any
	if n < 2 {
		algebraic = undefined("AlgebraicConnectivity", "single atom")
	} else {
		algebraic = eigL[1]
	}

	bcutM, okM := eigenvalues(burden(v, propMass))
	bcutE, okE := eigenvalues(burden(v, propEN))
	if !okM || !okE {
		return allUndefined(spectralNames, "eigendecomposition did not converge")
	}

	return []any{
		eigA[n-1], eigA[0], energy, estrada,
		eigL[n-1], algebraic, lapEnergy,
		bcutM[n-1], bcutM[0], bcutE[n-1], bcutE[0],
	}
}

// eigenvalues returns the eigenvalues of s in ascending order.
func eigenvalues(s *mat.SymDense) ([]float64, bool) {
	var es mat.EigenSym
	if ok := es.Factorize(s, false); !ok {
		return nil, false
	}
	return es.Values(nil), true
}

// burden builds the Burden matrix: an atomic property on the diagonal, one tenth of
// the bond order (plus 0.01 for bonds to terminal atoms) for bonded pairs, and 0.001
// for every other pair.
func burden(v *view, prop atomProperty) *mat.SymDense {
	n := v.n
	b := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			b.SetSym(i, j, 0.001)
		}
		b.SetSym(i, i, prop(v.mol.Atoms[i].Element))
	}
	for _, bond := range v.mol.Bonds {
		w := bond.Type.Order() / 10
		if bond.Type == smiles.Aromatic {
			w = 0.15
		}
		if v.deg[bond.From] == 1 || v.deg[bond.To] == 1 {
			w += 0.01
		}
		b.SetSym(bond.From, bond.To, w)
	}
	return b
}
