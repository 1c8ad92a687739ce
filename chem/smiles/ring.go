package smiles

func (p *parser) ringClosure() error {
	start := p.pos
	if p.prev < 0 {
		return p.fail(start, "ring closure before any atom")
	}
	var num int
	if p.in[p.pos] == '%' {
		if p.pos+2 >= len(p.in) || !isDigit(p.in[p.pos+1]) || !isDigit(p.in[p.pos+2]) {
			return p.fail(start, "'%' must be followed by two digits")
		}
		num = int(p.in[p.pos+1]-'0')*10 + int(p.in[p.pos+2]-'0')
		p.pos += 3
	} else {
		num = int(p.in[p.pos] - '0')
		p.pos++
	}

	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = ringOpen{atom: p.prev, bond: p.bond, stereo: p.stereo, pos: start}
		p.bond, p.stereo = 0, 0
		return nil
	}
	delete(p.rings, num)

	if open.atom == p.prev {
		return p.fail(start, "ring closure bonds an atom to itself")
	}
	if p.bondExists(open.atom, p.prev) {
		return p.fail(start, "ring closure duplicates an existing bond")
	}
	bt := open.bond
	if p.bond != 0 {
		if bt != 0 && bt != p.bond {
			return p.fail(start, "conflicting ring closure bond symbols")
		}
		bt = p.bond
	}
	stereo := p.stereo
	if stereo == 0 {
		stereo = open.stereo
	}
	p.mol.Bonds = append(p.mol.Bonds, Bond{
		From:   open.atom,
		To:     p.prev,
		Type:   p.resolveBond(open.atom, p.prev, bt),
		Stereo: stereo,
	})
	p.bond, p.stereo = 0, 0
	return nil
}

func (p *parser) bondExists(a, b int) bool {
	for _, bd := range p.mol.Bonds {
		if (bd.From == a && bd.To == b) || (bd.From == b && bd.To == a) {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
