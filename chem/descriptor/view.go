package descriptor

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/YuminosukeSato/moldesc/chem/smiles"
)

// view caches the graph quantities shared by several descriptor groups for one
// molecule. Fields are filled on first use.
type view struct {
	mol *smiles.Molecule
	n   int
	deg []int

	g          *simple.UndirectedGraph
	dist       [][]float64
	ecc        []float64
	components int
	rings      []ring
}

type ring struct {
	atoms []int
	bonds []int
}

func newView(mol *smiles.Molecule) *view {
	v := &view{mol: mol, n: mol.NumAtoms(), deg: make([]int, mol.NumAtoms())}
	for i := range v.deg {
		v.deg[i] = mol.Degree(i)
	}
	return v
}

// degrees returns the vertex degrees as floats.
func (v *view) degrees() []float64 {
	out := make([]float64, v.n)
	for i, d := range v.deg {
		out[i] = float64(d)
	}
	return out
}

func (v *view) graph() *simple.UndirectedGraph {
	if v.g == nil {
		v.g = v.mol.Graph()
	}
	return v.g
}

// distances returns the topological distance matrix; unreachable pairs are +Inf.
func (v *view) distances() [][]float64 {
	if v.dist != nil {
		return v.dist
	}
	all := path.DijkstraAllPaths(v.graph())
	v.dist = make([][]float64, v.n)
	for i := 0; i < v.n; i++ {
		v.dist[i] = make([]float64, v.n)
		for j := 0; j < v.n; j++ {
			if i == j {
				continue
			}
			v.dist[i][j] = all.Weight(int64(i), int64(j))
		}
	}
	return v.dist
}

// eccentricities returns, per atom, the largest finite distance to another atom.
func (v *view) eccentricities() []float64 {
	if v.ecc != nil {
		return v.ecc
	}
	d := v.distances()
	v.ecc = make([]float64, v.n)
	for i := range d {
		for _, x := range d[i] {
			if !math.IsInf(x, 1) && x > v.ecc[i] {
				v.ecc[i] = x
			}
		}
	}
	return v.ecc
}

func (v *view) componentCount() int {
	if v.components == 0 {
		v.components = len(topo.ConnectedComponents(v.graph()))
	}
	return v.components
}

// cyclomatic is the number of independent cycles, m - n + c.
func (v *view) cyclomatic() int {
	return v.mol.NumBonds() - v.n + v.componentCount()
}

// smallestRings returns a minimum-length cycle basis. Candidates are the shortest
// cycle through every ring bond plus gonum's fundamental cycle basis; they are
// taken shortest first while linearly independent over GF(2).
func (v *view) smallestRings() []ring {
	if v.rings != nil || v.cyclomatic() == 0 {
		return v.rings
	}
	var candidates []ring
	for b := range v.mol.Bonds {
		if !v.mol.IsRingBond(b) {
			continue
		}
		if r, ok := v.shortestCycleThrough(b); ok {
			candidates = append(candidates, r)
		}
	}
	for _, cycle := range topo.UndirectedCyclesIn(v.graph()) {
		if r, ok := v.ringFromNodes(cycle); ok {
			candidates = append(candidates, r)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].bonds) < len(candidates[j].bonds)
	})

	want := v.cyclomatic()
	basis := newGF2Basis(v.mol.NumBonds())
	for _, c := range candidates {
		if basis.add(c.bonds) {
			v.rings = append(v.rings, c)
			if len(v.rings) == want {
				break
			}
		}
	}
	return v.rings
}

// shortestCycleThrough finds the shortest path between the ends of bond b that
// avoids b itself, by breadth-first search.
func (v *view) shortestCycleThrough(b int) (ring, bool) {
	bond := v.mol.Bonds[b]
	prevAtom := make([]int, v.n)
	prevBond := make([]int, v.n)
	for i := range prevAtom {
		prevAtom[i] = -2
	}
	prevAtom[bond.From] = -1
	queue := []int{bond.From}
	for len(queue) > 0 && prevAtom[bond.To] == -2 {
		u := queue[0]
		queue = queue[1:]
		for _, e := range v.mol.AtomBonds(u) {
			if e == b {
				continue
			}
			w := v.mol.Bonds[e].Other(u)
			if prevAtom[w] != -2 {
				continue
			}
			prevAtom[w] = u
			prevBond[w] = e
			queue = append(queue, w)
		}
	}
	if prevAtom[bond.To] == -2 {
		return ring{}, false
	}
	r := ring{bonds: []int{b}}
	for a := bond.To; a != bond.From; a = prevAtom[a] {
		r.atoms = append(r.atoms, a)
		r.bonds = append(r.bonds, prevBond[a])
	}
	r.atoms = append(r.atoms, bond.From)
	return r, true
}

func (v *view) ringFromNodes(nodes []graph.Node) (ring, bool) {
	seen := make(map[int]bool, len(nodes))
	var atoms []int
	for _, n := range nodes {
		id := int(n.ID())
		if !seen[id] {
			seen[id] = true
			atoms = append(atoms, id)
		}
	}
	if len(atoms) < 3 {
		return ring{}, false
	}
	r := ring{atoms: atoms}
	for k := range atoms {
		b := v.mol.BondBetween(atoms[k], atoms[(k+1)%len(atoms)])
		if b < 0 {
			return ring{}, false
		}
		r.bonds = append(r.bonds, b)
	}
	return r, true
}

// gf2Basis is an incremental basis of bond-incidence vectors over GF(2).
type gf2Basis struct {
	words int
	rows  map[int][]uint64 // pivot bit -> row
}

func newGF2Basis(nBits int) *gf2Basis {
	return &gf2Basis{words: (nBits + 63) / 64, rows: make(map[int][]uint64)}
}

// add reduces the vector with the given set bits and keeps it if it is
// independent of the rows already in the basis.
func (b *gf2Basis) add(bits []int) bool {
	vec := make([]uint64, b.words)
	for _, bit := range bits {
		vec[bit/64] ^= 1 << (uint(bit) % 64)
	}
	for {
		pivot := highestBit(vec)
		if pivot < 0 {
			return false
		}
		row, ok := b.rows[pivot]
		if !ok {
			b.rows[pivot] = vec
			return true
		}
		for w := range vec {
			vec[w] ^= row[w]
		}
	}
}

func highestBit(vec []uint64) int {
	for w := len(vec) - 1; w >= 0; w-- {
		if vec[w] == 0 {
			continue
		}
		for bit := 63; bit >= 0; bit-- {
			if vec[w]&(1<<uint(bit)) != 0 {
				return w*64 + bit
			}
		}
	}
	return -1
}
