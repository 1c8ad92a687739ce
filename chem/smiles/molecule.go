// Package smiles parses SMILES structure strings into molecular graphs.
//
// The supported language is the OpenSMILES subset that covers organic datasets:
// organic-subset and aromatic atoms, bracket atoms with isotope, chirality, hydrogen
// count, charge and atom class, the bond symbols - = # $ : / \, branches, ring
// closures (digits and %nn) and dot-disconnected components. Hydrogens are kept
// implicit as per-atom counts.
package smiles

import (
	"gonum.org/v1/gonum/graph/simple"

	"github.com/YuminosukeSato/moldesc/chem/periodic"
)

// BondType is the type of a bond.
type BondType int

const (
	Single BondType = iota + 1
	Double
	Triple
	Quadruple
	Aromatic
)

// Order returns the conventional bond order; aromatic bonds count 1.5.
func (b BondType) Order() float64 {
	switch b {
	case Single:
		return 1
	case Double:
		return 2
	case Triple:
		return 3
	case Quadruple:
		return 4
	case Aromatic:
		return 1.5
	}
	return 0
}

// valenceContribution is the bond order used for implicit hydrogen derivation.
func (b BondType) valenceContribution() int {
	switch b {
	case Double:
		return 2
	case Triple:
		return 3
	case Quadruple:
		return 4
	}
	return 1
}

func (b BondType) String() string {
	switch b {
	case Single:
		return "single"
	case Double:
		return "double"
	case Triple:
		return "triple"
	case Quadruple:
		return "quadruple"
	case Aromatic:
		return "aromatic"
	}
	return "unknown"
}

// Atom is a heavy atom (or an explicit hydrogen that could not be folded into a
// neighbour).
type Atom struct {
	Element  periodic.Element
	Aromatic bool
	Isotope  int
	Charge   int
	// Hydrogens is the number of attached hydrogens, explicit or implicit.
	Hydrogens int
	// Bracket reports whether the atom was written in brackets.
	Bracket bool
	// Chirality is "", "@" or "@@".
	Chirality string
	Class     int
}

// Symbol returns the element symbol.
func (a Atom) Symbol() string { return a.Element.Symbol }

// Bond connects two atoms by index.
type Bond struct {
	From, To int
	Type     BondType
	// Stereo is '/' or '\\' for directional single bonds, otherwise 0.
	Stereo byte
}

// Other returns the endpoint of b that is not i.
func (b Bond) Other(i int) int {
	if b.From == i {
		return b.To
	}
	return b.From
}

// Molecule is a parsed structure. It is read-only after Parse returns.
type Molecule struct {
	Input string
	Atoms []Atom
	Bonds []Bond

	adj      [][]int // bond indices per atom
	ringBond []bool
}

// NumAtoms returns the number of atoms in the graph.
func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// NumBonds returns the number of bonds in the graph.
func (m *Molecule) NumBonds() int { return len(m.Bonds) }

// HeavyAtomCount counts non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.Atoms {
		if a.Element.Number != 1 {
			n++
		}
	}
	return n
}

// HydrogenCount returns the total number of hydrogens, attached or standalone.
func (m *Molecule) HydrogenCount() int {
	n := 0
	for _, a := range m.Atoms {
		n += a.Hydrogens
		if a.Element.Number == 1 {
			n++
		}
	}
	return n
}

// Degree returns the number of explicit neighbours of atom i.
func (m *Molecule) Degree(i int) int { return len(m.adj[i]) }

// Neighbors returns the indices of atoms bonded to atom i.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, len(m.adj[i]))
	for k, b := range m.adj[i] {
		out[k] = m.Bonds[b].Other(i)
	}
	return out
}

// AtomBonds returns the indices of bonds incident to atom i.
func (m *Molecule) AtomBonds(i int) []int { return m.adj[i] }

// BondBetween returns the index of the bond joining i and j, or -1.
func (m *Molecule) BondBetween(i, j int) int {
	for _, b := range m.adj[i] {
		if m.Bonds[b].Other(i) == j {
			return b
		}
	}
	return -1
}

// IsRingBond reports whether bond b lies on a cycle.
func (m *Molecule) IsRingBond(b int) bool { return m.ringBond[b] }

// IsRingAtom reports whether atom i has at least one ring bond.
func (m *Molecule) IsRingAtom(i int) bool {
	for _, b := range m.adj[i] {
		if m.ringBond[b] {
			return true
		}
	}
	return false
}

// Graph returns an undirected gonum graph over the atoms; node IDs are atom indices.
func (m *Molecule) Graph() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := range m.Atoms {
		g.AddNode(simple.Node(i))
	}
	for _, b := range m.Bonds {
		g.SetEdge(g.NewEdge(simple.Node(b.From), simple.Node(b.To)))
	}
	return g
}

func (m *Molecule) index() {
	m.adj = make([][]int, len(m.Atoms))
	for k, b := range m.Bonds {
		m.adj[b.From] = append(m.adj[b.From], k)
		m.adj[b.To] = append(m.adj[b.To], k)
	}
	m.ringBond = findRingBonds(len(m.Atoms), m.Bonds, m.adj)
}

// findRingBonds marks every bond that is not a bridge (Tarjan's low-link).
func findRingBonds(n int, bonds []Bond, adj [][]int) []bool {
	ring := make([]bool, len(bonds))
	for k := range ring {
		ring[k] = true
	}
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	timer := 0

	var visit func(u, parentBond int)
	visit = func(u, parentBond int) {
		disc[u] = timer
		low[u] = timer
		timer++
		for _, b := range adj[u] {
			if b == parentBond {
				continue
			}
			v := bonds[b].Other(u)
			if disc[v] == -1 {
				visit(v, b)
				if low[v] < low[u] {
					low[u] = low[v]
				}
				if low[v] > disc[u] {
					ring[b] = false
				}
			} else if disc[v] < low[u] {
				low[u] = disc[v]
			}
		}
	}
	for i := 0; i < n; i++ {
		if disc[i] == -1 {
			visit(i, -1)
		}
	}
	return ring
}
