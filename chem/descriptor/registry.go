package descriptor

import (
	"github.com/YuminosukeSato/moldesc/chem/periodic"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// VocabularyVersion changes whenever a descriptor is added, removed or redefined.
// It is part of every cache key.
const VocabularyVersion = "moldesc-descriptors/1"

var hydrogen = periodic.MustLookup("H")

// group computes several related descriptors at once from a shared view.
type group struct {
	name    string
	names   []string
	compute func(v *view) []any
}

// registry is the fixed, ordered vocabulary.
var registry = []group{
	constitutionalGroup,
	topologicalGroup,
	ringGroup,
	electronicGroup,
	autocorrelationGroup,
	spectralGroup,
	conjugationGroup,
}

// Names returns the full descriptor vocabulary in table column order.
func Names() []string {
	var out []string
	for _, g := range registry {
		out = append(out, g.names...)
	}
	return out
}

func undefined(name, reason string) error {
	return errors.NewUndefinedDescriptorError(name, reason)
}

// allUndefined fills every named slot with the same reason.
func allUndefined(names []string, reason string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = undefined(n, reason)
	}
	return out
}

func ratio(name string, num, den float64, reason string) any {
	if den == 0 {
		return undefined(name, reason)
	}
	return num / den
}
