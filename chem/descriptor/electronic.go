package descriptor

import (
	"math"

	"github.com/YuminosukeSato/moldesc/chem/periodic"
)

var electronicGroup = group{
	name: "electronic",
	names: []string{
		"SumEN", "MeanEN", "MaxEN", "MinEN", "SumScaledEN",
		"SumPol", "MeanPol",
		"SumIP", "MeanIP",
		"nValenceElectrons", "nPiElectrons",
	},
	compute: computeElectronic,
}

// atomProperty extracts one element property.
type atomProperty func(e periodic.Element) float64

var (
	propMass           atomProperty = func(e periodic.Element) float64 { return e.Mass }
	propEN             atomProperty = func(e periodic.Element) float64 { return e.Electronegativity }
	propPolarizability atomProperty = func(e periodic.Element) float64 { return e.Polarizability }
	propIonization     atomProperty = func(e periodic.Element) float64 { return e.Ionization }
)

// Sums and means run over every atom including implicit hydrogens; the extremes
// only over graph atoms.
func computeElectronic(v *view) []any {
	m := v.mol
	nAtom := 0
	var sumEN, sumScaled, sumPol, sumIP float64
	maxEN, minEN := math.Inf(-1), math.Inf(1)
	valence := 0

	add := func(e periodic.Element, count int) {
		c := float64(count)
		sumEN += c * e.Electronegativity
		sumScaled += c * e.Electronegativity / periodic.Carbon.Electronegativity
		sumPol += c * e.Polarizability
		sumIP += c * e.Ionization
		valence += count * e.ValenceElectrons
		nAtom += count
	}
	for _, a := range m.Atoms {
		add(a.Element, 1)
		if a.Hydrogens > 0 {
			add(hydrogen, a.Hydrogens)
		}
		valence -= a.Charge
		if a.Element.Electronegativity > 0 {
			maxEN = math.Max(maxEN, a.Element.Electronegativity)
			minEN = math.Min(minEN, a.Element.Electronegativity)
		}
	}

	var maxVal, minVal any = maxEN, minEN
	if math.IsInf(maxEN, -1) {
		maxVal = undefined("MaxEN", "no atom with defined electronegativity")
		minVal = undefined("MinEN", "no atom with defined electronegativity")
	}

	return []any{
		sumEN, ratio("MeanEN", sumEN, float64(nAtom), "no atoms"), maxVal, minVal, sumScaled,
		sumPol, ratio("MeanPol", sumPol, float64(nAtom), "no atoms"),
		sumIP, ratio("MeanIP", sumIP, float64(nAtom), "no atoms"),
		valence, piElectrons(v),
	}
}

// piElectrons counts two electrons per pi bond: one for a double bond, two for a
// triple bond, and one electron per aromatic bond.
func piElectrons(v *view) int {
	n := 0
	for _, b := range v.mol.Bonds {
		switch b.Type.Order() {
		case 2:
			n += 2
		case 3:
			n += 4
		case 4:
			n += 6
		case 1.5:
			n++
		}
	}
	return n
}
