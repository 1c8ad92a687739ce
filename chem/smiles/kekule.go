package smiles

// kekuleBudget caps the matching search per aromatic system. Past it the system is
// accepted as written.
const kekuleBudget = 1 << 16

// checkKekule rejects aromatic systems that admit no Kekulé structure, such as
// c1cccc1. Every aromatic atom left with a free valence must pair with an aromatic
// neighbour through an aromatic bond, and the pairs must not overlap.
func (p *parser) checkKekule() error {
	m := p.mol
	need := make([]bool, len(m.Atoms))
	for i, a := range m.Atoms {
		if !a.Aromatic {
			continue
		}
		v, ok := aromaticValence(a)
		if !ok {
			continue
		}
		used := a.Hydrogens
		for _, k := range m.adj[i] {
			used += m.Bonds[k].Type.valenceContribution()
		}
		need[i] = v > used
	}

	partners := func(i int) []int {
		var out []int
		for _, k := range m.adj[i] {
			b := m.Bonds[k]
			if j := b.Other(i); b.Type == Aromatic && need[j] {
				out = append(out, j)
			}
		}
		return out
	}

	match := make([]int, len(m.Atoms))
	seen := make([]bool, len(m.Atoms))
	for i := range match {
		match[i] = -1
	}
	for start := range m.Atoms {
		if !need[start] || seen[start] {
			continue
		}
		system := []int{start}
		seen[start] = true
		for q := 0; q < len(system); q++ {
			for _, j := range partners(system[q]) {
				if !seen[j] {
					seen[j] = true
					system = append(system, j)
				}
			}
		}
		steps := 0
		if !pairUp(system, partners, match, &steps) {
			return p.fail(p.atomPos[start], "aromatic system cannot be kekulized")
		}
	}
	return nil
}

// pairUp searches for a perfect matching of system, always branching on the
// unmatched atom with the fewest free partners.
func pairUp(system []int, partners func(int) []int, match []int, steps *int) bool {
	*steps++
	if *steps > kekuleBudget {
		return true
	}
	best := -1
	var bestFree []int
	for _, i := range system {
		if match[i] >= 0 {
			continue
		}
		var free []int
		for _, j := range partners(i) {
			if match[j] < 0 {
				free = append(free, j)
			}
		}
		if best < 0 || len(free) < len(bestFree) {
			best, bestFree = i, free
		}
		if len(free) == 0 {
			return false
		}
	}
	if best < 0 {
		return true
	}
	for _, j := range bestFree {
		match[best], match[j] = j, best
		if pairUp(system, partners, match, steps) {
			return true
		}
		match[best], match[j] = -1, -1
	}
	return false
}

// aromaticValence is the valence an aromatic atom reaches once it takes part in a
// double bond. Elements outside the table are never asked to pair.
func aromaticValence(a Atom) (int, bool) {
	switch a.Element.Symbol {
	case "C":
		if a.Charge < 0 {
			return 4 + a.Charge, true
		}
		return 4 - a.Charge, true
	case "B":
		return 3 - a.Charge, true
	case "N", "P", "As":
		return 3 + a.Charge, true
	case "O", "S", "Se", "Te":
		return 2 + a.Charge, true
	}
	return 0, false
}
