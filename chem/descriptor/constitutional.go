package descriptor

import (
	"github.com/YuminosukeSato/moldesc/chem/smiles"
)

var countedElements = []string{"B", "C", "N", "O", "F", "Si", "P", "S", "Cl", "Br", "I"}

var constitutionalNames = append(append([]string{
	"nAtom", "nHeavyAtom", "nH",
}, elementCountNames()...),
	"nX", "nHetero",
	"nBonds", "nBondsS", "nBondsD", "nBondsT", "nBondsA", "nBondsM",
	"MW", "AMW",
	"nRot", "RotRatio",
	"nHBDon", "nHBAcc",
	"FCSP3",
	"FormalCharge", "nCharged", "HasCharge",
	"nIsotope", "nStereoCenter", "nStereoBond",
	"nDeg1", "nDeg2", "nDeg3", "nDeg4",
	"nAromAtom", "nRingAtom",
)

var constitutionalGroup = group{
	name:    "constitutional",
	names:   constitutionalNames,
	compute: computeConstitutional,
}

func elementCountNames() []string {
	out := make([]string, len(countedElements))
	for i, s := range countedElements {
		out[i] = "n" + s
	}
	return out
}

func computeConstitutional(v *view) []any {
	m := v.mol
	out := make([]any, 0, len(constitutionalNames))

	nH := m.HydrogenCount()
	nHeavy := m.HeavyAtomCount()
	nAtom := nHeavy + nH
	out = append(out, nAtom, nHeavy, nH)

	counts := make(map[string]int)
	halogens, hetero := 0, 0
	for _, a := range m.Atoms {
		sym := a.Symbol()
		counts[sym]++
		switch sym {
		case "F", "Cl", "Br", "I":
			halogens++
		}
		if sym != "C" && sym != "H" && sym != "*" {
			hetero++
		}
	}
	for _, s := range countedElements {
		out = append(out, counts[s])
	}
	out = append(out, halogens, hetero)

	byType := make(map[smiles.BondType]int)
	for _, b := range m.Bonds {
		byType[b.Type]++
	}
	multiple := byType[smiles.Double] + byType[smiles.Triple] + byType[smiles.Quadruple] + byType[smiles.Aromatic]
	out = append(out, m.NumBonds(), byType[smiles.Single], byType[smiles.Double],
		byType[smiles.Triple], byType[smiles.Aromatic], multiple)

	mw := 0.0
	for _, a := range m.Atoms {
		mw += a.Element.Mass + float64(a.Hydrogens)*hydrogen.Mass
	}
	out = append(out, mw, ratio("AMW", mw, float64(nAtom), "no atoms"))

	nRot := rotatableBonds(v)
	out = append(out, nRot, ratio("RotRatio", float64(nRot), float64(m.NumBonds()), "no bonds"))

	donors, acceptors := hBondCounts(m)
	out = append(out, donors, acceptors)

	out = append(out, fractionCSP3(m))

	charge, charged := 0, 0
	isotopes, stereoCenters := 0, 0
	for _, a := range m.Atoms {
		charge += a.Charge
		if a.Charge != 0 {
			charged++
		}
		if a.Isotope != 0 {
			isotopes++
		}
		if a.Chirality != "" {
			stereoCenters++
		}
	}
	stereoBonds := 0
	for _, b := range m.Bonds {
		if b.Stereo != 0 {
			stereoBonds++
		}
	}
	out = append(out, charge, charged, charged > 0, isotopes, stereoCenters, stereoBonds)

	var deg [5]int
	for _, d := range v.deg {
		if d >= 1 && d <= 4 {
			deg[d]++
		}
	}
	out = append(out, deg[1], deg[2], deg[3], deg[4])

	aromatic, ringAtoms := 0, 0
	for i, a := range m.Atoms {
		if a.Aromatic {
			aromatic++
		}
		if m.IsRingAtom(i) {
			ringAtoms++
		}
	}
	out = append(out, aromatic, ringAtoms)
	return out
}

// rotatableBonds counts single, non-ring bonds between two non-terminal heavy atoms,
// excluding bonds next to a triple bond.
func rotatableBonds(v *view) int {
	m := v.mol
	n := 0
	for k, b := range m.Bonds {
		if b.Type != smiles.Single || m.IsRingBond(k) {
			continue
		}
		if v.deg[b.From] < 2 || v.deg[b.To] < 2 {
			continue
		}
		if hasBondType(m, b.From, smiles.Triple) || hasBondType(m, b.To, smiles.Triple) {
			continue
		}
		n++
	}
	return n
}

func hasBondType(m *smiles.Molecule, atom int, t smiles.BondType) bool {
	for _, b := range m.AtomBonds(atom) {
		if m.Bonds[b].Type == t {
			return true
		}
	}
	return false
}

// hBondCounts uses the Lipinski-style rules: donors are N and O carrying hydrogen,
// acceptors are O and N atoms that are not positively charged.
func hBondCounts(m *smiles.Molecule) (donors, acceptors int) {
	for _, a := range m.Atoms {
		switch a.Symbol() {
		case "N", "O":
			if a.Hydrogens > 0 {
				donors++
			}
			if a.Charge <= 0 {
				acceptors++
			}
		}
	}
	return donors, acceptors
}

func fractionCSP3(m *smiles.Molecule) any {
	carbons, sp3 := 0, 0
	for i, a := range m.Atoms {
		if a.Symbol() != "C" {
			continue
		}
		carbons++
		if a.Aromatic {
			continue
		}
		saturated := true
		for _, b := range m.AtomBonds(i) {
			if m.Bonds[b].Type != smiles.Single {
				saturated = false
				break
			}
		}
		if saturated {
			sp3++
		}
	}
	return ratio("FCSP3", float64(sp3), float64(carbons), "no carbon atoms")
}
