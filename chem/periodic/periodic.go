// Package periodic is a small table of element properties used by the structure
// parser and the descriptor engine.
package periodic

// Element holds the properties of one chemical element.
type Element struct {
	Symbol string
	Number int
	// Mass is the standard atomic weight in daltons.
	Mass float64
	// Electronegativity on the Pauling scale; 0 when undefined.
	Electronegativity float64
	// Polarizability in cubic angstroms.
	Polarizability float64
	// Ionization is the first ionization energy in eV.
	Ionization float64
	// ValenceElectrons counts electrons in the outer shell.
	ValenceElectrons int
	// CovalentRadius in angstroms.
	CovalentRadius float64
	// Valences are the default valences in increasing order, used to derive
	// implicit hydrogen counts.
	Valences []int
}

// LowestValence returns the smallest default valence, or 0.
func (e Element) LowestValence() int {
	if len(e.Valences) == 0 {
		return 0
	}
	return e.Valences[0]
}

// TargetValence returns the smallest default valence that is at least used, or -1
// when used exceeds every default valence.
func (e Element) TargetValence(used int) int {
	for _, v := range e.Valences {
		if v >= used {
			return v
		}
	}
	return -1
}

var table = []Element{
	{"*", 0, 0, 0, 0, 0, 0, 0, nil},
	{"H", 1, 1.008, 2.20, 0.667, 13.598, 1, 0.31, []int{1}},
	{"Li", 3, 6.94, 0.98, 24.3, 5.392, 1, 1.28, []int{1}},
	{"B", 5, 10.81, 2.04, 3.03, 8.298, 3, 0.84, []int{3}},
	{"C", 6, 12.011, 2.55, 1.76, 11.260, 4, 0.76, []int{4}},
	{"N", 7, 14.007, 3.04, 1.10, 14.534, 5, 0.71, []int{3, 5}},
	{"O", 8, 15.999, 3.44, 0.802, 13.618, 6, 0.66, []int{2}},
	{"F", 9, 18.998, 3.98, 0.557, 17.423, 7, 0.57, []int{1}},
	{"Na", 11, 22.990, 0.93, 24.11, 5.139, 1, 1.66, []int{1}},
	{"Mg", 12, 24.305, 1.31, 10.6, 7.646, 2, 1.41, []int{2}},
	{"Al", 13, 26.982, 1.61, 6.8, 5.986, 3, 1.21, []int{3}},
	{"Si", 14, 28.085, 1.90, 5.38, 8.152, 4, 1.11, []int{4}},
	{"P", 15, 30.974, 2.19, 3.63, 10.487, 5, 1.07, []int{3, 5}},
	{"S", 16, 32.06, 2.58, 2.90, 10.360, 6, 1.05, []int{2, 4, 6}},
	{"Cl", 17, 35.45, 3.16, 2.18, 12.968, 7, 1.02, []int{1}},
	{"K", 19, 39.098, 0.82, 43.4, 4.341, 1, 2.03, []int{1}},
	{"Ca", 20, 40.078, 1.00, 22.8, 6.113, 2, 1.76, []int{2}},
	{"Fe", 26, 55.845, 1.83, 8.4, 7.902, 2, 1.32, []int{2, 3}},
	{"Cu", 29, 63.546, 1.90, 6.2, 7.726, 1, 1.32, []int{1, 2}},
	{"Zn", 30, 65.38, 1.65, 5.75, 9.394, 2, 1.22, []int{2}},
	{"Ge", 32, 72.630, 2.01, 6.07, 7.900, 4, 1.20, []int{4}},
	{"As", 33, 74.922, 2.18, 4.31, 9.789, 5, 1.19, []int{3, 5}},
	{"Se", 34, 78.971, 2.55, 3.77, 9.752, 6, 1.20, []int{2, 4, 6}},
	{"Br", 35, 79.904, 2.96, 3.05, 11.814, 7, 1.20, []int{1}},
	{"Sn", 50, 118.71, 1.96, 7.7, 7.344, 4, 1.39, []int{2, 4}},
	{"I", 53, 126.90, 2.66, 5.35, 10.451, 7, 1.39, []int{1, 3, 5}},
}

var bySymbol = func() map[string]Element {
	m := make(map[string]Element, len(table))
	for _, e := range table {
		m[e.Symbol] = e
	}
	return m
}()

// Lookup returns the element with the given symbol ("C", "Cl", "*").
func Lookup(symbol string) (Element, bool) {
	e, ok := bySymbol[symbol]
	return e, ok
}

// MustLookup is Lookup for symbols known to be in the table.
func MustLookup(symbol string) Element {
	e, ok := bySymbol[symbol]
	if !ok {
		panic("periodic: unknown element " + symbol)
	}
	return e
}

// Carbon is the reference element for relative scales (Kier alpha, scaled
// electronegativity).
var Carbon = MustLookup("C")

// Symbols returns every symbol in the table, in atomic number order.
func Symbols() []string {
	out := make([]string, len(table))
	for i, e := range table {
		out[i] = e.Symbol
	}
	return out
}
