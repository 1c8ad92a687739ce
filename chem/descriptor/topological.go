package descriptor

import (
	"math"
)

var topologicalGroup = group{
	name: "topological",
	names: []string{
		"WienerIndex", "WienerPolarity", "MeanDistance",
		"Diameter", "Radius", "PetitjeanIndex",
		"BalabanJ",
		"Zagreb1", "Zagreb2",
		"Chi0", "Chi1", "Chi2", "Chi0v", "Chi1v",
		"HararyIndex", "EccentricConnectivity",
		"Kappa1", "Kappa2", "Kappa3", "KierFlex",
		"nComponents", "Cyclomatic",
	},
	compute: computeTopological,
}

func computeTopological(v *view) []any {
	d := v.distances()
	ecc := v.eccentricities()
	m := v.mol

	wiener, harary := 0.0, 0.0
	pairs, polarity := 0, 0
	for i := 0; i < v.n; i++ {
		for j := i + 1; j < v.n; j++ {
			if math.IsInf(d[i][j], 1) {
				continue
			}
			wiener += d[i][j]
			harary += 1 / d[i][j]
			pairs++
			if d[i][j] == 3 {
				polarity++
			}
		}
	}

	diameter, radius := 0.0, math.Inf(1)
	eccConn := 0.0
	for i, e := range ecc {
		if e > diameter {
			diameter = e
		}
		if e < radius {
			radius = e
		}
		eccConn += e * float64(v.deg[i])
	}

	var petitjean any
	if radius == 0 {
		petitjean = undefined("PetitjeanIndex", "graph radius is zero")
	} else {
		petitjean = (diameter - radius) / radius
	}

	zagreb1, zagreb2 := 0, 0
	for _, dg := range v.deg {
		zagreb1 += dg * dg
	}
	for _, b := range m.Bonds {
		zagreb2 += v.deg[b.From] * v.deg[b.To]
	}

	kappa1, kappa2, kappa3, flex := kierShape(v)

	return []any{
		wiener, polarity, ratio("MeanDistance", wiener, float64(pairs), "fewer than two connected atoms"),
		diameter, radius, petitjean,
		balabanJ(v),
		zagreb1, zagreb2,
		chi0(v.degrees()), chi1(v, v.deg), chi2(v, v.deg),
		chi0(valenceDeltas(v)), chi1Valence(v),
		harary, eccConn,
		kappa1, kappa2, kappa3, flex,
		v.componentCount(), v.cyclomatic(),
	}
}

// balabanJ is m/(mu+1) * sum over bonds of (s_i s_j)^-1/2, where s is the row sum
// of the distance matrix and mu the cyclomatic number.
func balabanJ(v *view) any {
	m := v.mol
	if m.NumBonds() == 0 {
		return undefined("BalabanJ", "no bonds")
	}
	d := v.distances()
	s := make([]float64, v.n)
	for i := range d {
		for _, x := range d[i] {
			if !math.IsInf(x, 1) {
				s[i] += x
			}
		}
	}
	sum := 0.0
	for _, b := range m.Bonds {
		sum += 1 / math.Sqrt(s[b.From]*s[b.To])
	}
	mu := float64(v.cyclomatic())
	return float64(m.NumBonds()) / (mu + 1) * sum
}

func chi0(deltas []float64) float64 {
	x := 0.0
	for _, d := range deltas {
		if d > 0 {
			x += 1 / math.Sqrt(d)
		}
	}
	return x
}

func chi1(v *view, deg []int) float64 {
	x := 0.0
	for _, b := range v.mol.Bonds {
		x += 1 / math.Sqrt(float64(deg[b.From]*deg[b.To]))
	}
	return x
}

// chi2 sums (d_i d_j d_k)^-1/2 over every path i-j-k of length two.
func chi2(v *view, deg []int) float64 {
	x := 0.0
	for j := 0; j < v.n; j++ {
		nb := v.mol.Neighbors(j)
		for a := 0; a < len(nb); a++ {
			for b := a + 1; b < len(nb); b++ {
				x += 1 / math.Sqrt(float64(deg[nb[a]]*deg[j]*deg[nb[b]]))
			}
		}
	}
	return x
}

// valenceDeltas are the Kier-Hall valence vertex degrees (Zv - h) / (Z - Zv - 1).
// Atoms without a meaningful value fall back to the simple degree.
func valenceDeltas(v *view) []float64 {
	out := make([]float64, v.n)
	for i, a := range v.mol.Atoms {
		z := float64(a.Element.Number)
		zv := float64(a.Element.ValenceElectrons)
		den := z - zv - 1
		dv := (zv - float64(a.Hydrogens) - float64(a.Charge)) / den
		if den <= 0 || dv <= 0 {
			dv = float64(v.deg[i])
		}
		out[i] = dv
	}
	return out
}

func chi1Valence(v *view) float64 {
	dv := valenceDeltas(v)
	x := 0.0
	for _, b := range v.mol.Bonds {
		p := dv[b.From] * dv[b.To]
		if p > 0 {
			x += 1 / math.Sqrt(p)
		}
	}
	return x
}

// kierShape returns the Kier kappa shape indices of orders one to three and the
// flexibility index kappa1*kappa2/A.
func kierShape(v *view) (k1, k2, k3, flex any) {
	a := float64(v.mol.HeavyAtomCount())
	p1 := float64(v.mol.NumBonds())
	p2 := 0.0
	for _, d := range v.deg {
		p2 += float64(d * (d - 1) / 2)
	}
	p3 := 0.0
	for _, b := range v.mol.Bonds {
		p3 += float64((v.deg[b.From] - 1) * (v.deg[b.To] - 1))
	}
	for _, r := range v.smallestRings() {
		if len(r.atoms) == 3 {
			p3 -= 3
		}
	}

	if p1 > 0 {
		k1 = a * (a - 1) * (a - 1) / (p1 * p1)
	} else {
		k1 = undefined("Kappa1", "no bonds")
	}
	if p2 > 0 {
		k2 = (a - 1) * (a - 2) * (a - 2) / (p2 * p2)
	} else {
		k2 = undefined("Kappa2", "no paths of length two")
	}
	if p3 > 0 {
		if int(a)%2 == 1 {
			k3 = (a - 1) * (a - 3) * (a - 3) / (p3 * p3)
		} else {
			k3 = (a - 3) * (a - 2) * (a - 2) / (p3 * p3)
		}
	} else {
		k3 = undefined("Kappa3", "no paths of length three")
	}
	f1, ok1 := k1.(float64)
	f2, ok2 := k2.(float64)
	if ok1 && ok2 && a > 0 {
		flex = f1 * f2 / a
	} else {
		flex = undefined("KierFlex", "kappa1 or kappa2 undefined")
	}
	return k1, k2, k3, flex
}
