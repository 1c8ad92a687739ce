package descriptor

import "fmt"

const maxLag = 4

var autocorrelationProps = []struct {
	suffix string
	prop   atomProperty
}{
	{"m", propMass},
	{"e", propEN},
	{"p", propPolarizability},
	{"i", propIonization},
}

var autocorrelationNames = buildAutocorrelationNames()

var autocorrelationGroup = group{
	name:    "autocorrelation",
	names:   autocorrelationNames,
	compute: computeAutocorrelation,
}

func buildAutocorrelationNames() []string {
	var out []string
	for _, p := range autocorrelationProps {
		for lag := 0; lag <= maxLag; lag++ {
			out = append(out, fmt.Sprintf("ATS%d%s", lag, p.suffix))
		}
	}
	return out
}

// computeAutocorrelation returns the Moreau-Broto autocorrelations: for each lag
// the sum of w_i*w_j over atom pairs at that topological distance (lag 0 is the
// sum of squares).
func computeAutocorrelation(v *view) []any {
	d := v.distances()
	out := make([]any, 0, len(autocorrelationNames))
	w := make([]float64, v.n)
	for _, p := range autocorrelationProps {
		for i, a := range v.mol.Atoms {
			w[i] = p.prop(a.Element)
		}
		var ats [maxLag + 1]float64
		for i := 0; i < v.n; i++ {
			ats[0] += w[i] * w[i]
			for j := i + 1; j < v.n; j++ {
				lag := d[i][j]
				if lag >= 1 && lag <= maxLag {
					ats[int(lag)] += w[i] * w[j]
				}
			}
		}
		for _, x := range ats {
			out = append(out, x)
		}
	}
	return out
}
