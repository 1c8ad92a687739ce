package smiles

// assignHydrogens derives implicit hydrogen counts for organic-subset atoms from
// their default valences. Aromatic b, c, n and p contribute one extra electron to
// the pi system; aromatic o and s do not.
func (p *parser) assignHydrogens() {
	used := make([]int, len(p.mol.Atoms))
	for _, b := range p.mol.Bonds {
		v := b.Type.valenceContribution()
		used[b.From] += v
		used[b.To] += v
	}
	for i := range p.mol.Atoms {
		if !p.implicitHs[i] {
			continue
		}
		a := &p.mol.Atoms[i]
		if a.Aromatic {
			u := used[i]
			switch a.Element.Symbol {
			case "B", "C", "N", "P":
				u++
			}
			if h := a.Element.LowestValence() - u; h > 0 {
				a.Hydrogens = h
			}
			continue
		}
		if target := a.Element.TargetValence(used[i]); target > 0 {
			a.Hydrogens = target - used[i]
		}
	}
}

// foldHydrogens removes bracket hydrogens that hang off exactly one atom, adding
// them to that atom's hydrogen count. [H][H] and charged or isotopic hydrogens are
// kept as atoms.
func (p *parser) foldHydrogens() {
	m := p.mol
	degree := make([]int, len(m.Atoms))
	for _, b := range m.Bonds {
		degree[b.From]++
		degree[b.To]++
	}
	remove := make([]bool, len(m.Atoms))
	removed := 0
	for _, b := range m.Bonds {
		for _, pair := range [2][2]int{{b.From, b.To}, {b.To, b.From}} {
			h, heavy := pair[0], pair[1]
			ha := m.Atoms[h]
			if ha.Element.Number != 1 || ha.Isotope != 0 || ha.Charge != 0 || degree[h] != 1 || b.Type != Single {
				continue
			}
			if m.Atoms[heavy].Element.Number == 1 || remove[h] {
				continue
			}
			remove[h] = true
			removed++
			m.Atoms[heavy].Hydrogens += 1 + ha.Hydrogens
		}
	}
	if removed == 0 {
		return
	}

	newIndex := make([]int, len(m.Atoms))
	atoms := make([]Atom, 0, len(m.Atoms)-removed)
	pos := make([]int, 0, len(m.Atoms)-removed)
	for i, a := range m.Atoms {
		if remove[i] {
			newIndex[i] = -1
			continue
		}
		newIndex[i] = len(atoms)
		atoms = append(atoms, a)
		pos = append(pos, p.atomPos[i])
	}
	bonds := make([]Bond, 0, len(m.Bonds))
	for _, b := range m.Bonds {
		if remove[b.From] || remove[b.To] {
			continue
		}
		b.From, b.To = newIndex[b.From], newIndex[b.To]
		bonds = append(bonds, b)
	}
	m.Atoms, m.Bonds = atoms, bonds
	p.atomPos = pos
}

// demoteChainAromaticBonds turns implicit aromatic bonds that are not on a ring, as
// between the two rings of biphenyl written c1ccccc1c1ccccc1, into single bonds.
func (p *parser) demoteChainAromaticBonds() {
	m := p.mol
	for k, b := range m.Bonds {
		if b.Type == Aromatic && !m.ringBond[k] && m.Atoms[b.From].Aromatic && m.Atoms[b.To].Aromatic {
			m.Bonds[k].Type = Single
		}
	}
}
