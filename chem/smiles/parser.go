package smiles

import (
	"github.com/YuminosukeSato/moldesc/chem/periodic"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// aromatic symbols allowed outside brackets
var organicAromatic = map[byte]string{'b': "B", 'c': "C", 'n': "N", 'o': "O", 'p': "P", 's': "S"}

// aromatic symbols allowed inside brackets
var bracketAromatic = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S", "se": "Se", "as": "As",
}

type ringOpen struct {
	atom   int
	bond   BondType
	stereo byte
	pos    int
}

type parser struct {
	in  string
	pos int
	mol *Molecule

	prev       int
	bond       BondType
	stereo     byte
	bondPos    int
	branches   []int
	rings      map[int]ringOpen
	implicitHs []bool
	// atomPos is the input offset of each atom
	atomPos  []int
	tokenPos int

	lastNumberLen int
}

// Parse parses a SMILES string. Malformed input returns a *errors.ParseError that
// names the offending position.
func Parse(s string) (*Molecule, error) {
	p := &parser{
		in:    s,
		mol:   &Molecule{Input: s},
		prev:  -1,
		rings: make(map[int]ringOpen),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	p.assignHydrogens()
	p.foldHydrogens()
	p.mol.index()
	p.demoteChainAromaticBonds()
	if err := p.checkKekule(); err != nil {
		return nil, err
	}
	return p.mol, nil
}

// ParseAll parses every structure. Failed entries are nil in the molecule slice and
// carry their error at the same index.
func ParseAll(structures []string) ([]*Molecule, []error) {
	mols := make([]*Molecule, len(structures))
	errs := make([]error, len(structures))
	for i, s := range structures {
		mols[i], errs[i] = Parse(s)
	}
	return mols, errs
}

func (p *parser) fail(pos int, reason string) error {
	return errors.NewParseError(p.in, pos, reason)
}

func (p *parser) run() error {
	if p.in == "" {
		return p.fail(0, "empty structure")
	}
	for p.pos < len(p.in) {
		c := p.in[p.pos]
		p.tokenPos = p.pos
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.fail(p.pos, "branch opened before any atom")
			}
			if p.bond != 0 {
				return p.fail(p.bondPos, "bond symbol before branch")
			}
			p.branches = append(p.branches, p.prev)
			p.pos++
		case c == ')':
			if len(p.branches) == 0 {
				return p.fail(p.pos, "unbalanced ')'")
			}
			if p.bond != 0 {
				return p.fail(p.bondPos, "bond symbol at end of branch")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case c == '.':
			if p.bond != 0 {
				return p.fail(p.bondPos, "bond symbol before '.'")
			}
			if p.prev < 0 {
				return p.fail(p.pos, "'.' before any atom")
			}
			p.prev = -1
			p.pos++
		case isBondSymbol(c):
			if p.bond != 0 {
				return p.fail(p.pos, "consecutive bond symbols")
			}
			if p.prev < 0 {
				return p.fail(p.pos, "bond symbol before any atom")
			}
			p.bond, p.stereo = bondFromSymbol(c)
			p.bondPos = p.pos
			p.pos++
		case c >= '0' && c <= '9' || c == '%':
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}

	switch {
	case p.bond != 0:
		return p.fail(p.bondPos, "dangling bond symbol")
	case p.prev < 0 && p.in[len(p.in)-1] == '.':
		return p.fail(len(p.in)-1, "'.' not followed by an atom")
	case len(p.branches) > 0:
		return p.fail(len(p.in), "unclosed branch")
	case len(p.rings) > 0:
		lowest := -1
		for _, r := range p.rings {
			if lowest < 0 || r.pos < lowest {
				lowest = r.pos
			}
		}
		return p.fail(lowest, "unclosed ring")
	case len(p.mol.Atoms) == 0:
		return p.fail(0, "no atoms")
	}
	return nil
}

func isBondSymbol(c byte) bool {
	switch c {
	case '-', '=', '#', '$', ':', '/', '\\':
		return true
	}
	return false
}

func bondFromSymbol(c byte) (BondType, byte) {
	switch c {
	case '=':
		return Double, 0
	case '#':
		return Triple, 0
	case '$':
		return Quadruple, 0
	case ':':
		return Aromatic, 0
	case '/', '\\':
		return Single, c
	}
	return Single, 0
}

func (p *parser) addAtom(a Atom, implicitH bool) {
	idx := len(p.mol.Atoms)
	p.mol.Atoms = append(p.mol.Atoms, a)
	p.implicitHs = append(p.implicitHs, implicitH)
	p.atomPos = append(p.atomPos, p.tokenPos)
	if p.prev >= 0 {
		p.mol.Bonds = append(p.mol.Bonds, Bond{From: p.prev, To: idx, Type: p.resolveBond(p.prev, idx, p.bond), Stereo: p.stereo})
	}
	p.prev = idx
	p.bond = 0
	p.stereo = 0
}

func (p *parser) resolveBond(a, b int, explicit BondType) BondType {
	if explicit != 0 {
		return explicit
	}
	if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
		return Aromatic
	}
	return Single
}

func (p *parser) organicAtom() error {
	start := p.pos
	c := p.in[p.pos]
	if p.pos+1 < len(p.in) {
		two := p.in[p.pos : p.pos+2]
		if two == "Cl" || two == "Br" {
			p.pos += 2
			p.addAtom(Atom{Element: periodic.MustLookup(two)}, true)
			return nil
		}
	}
	switch c {
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		p.pos++
		p.addAtom(Atom{Element: periodic.MustLookup(string(c))}, true)
		return nil
	case '*':
		p.pos++
		p.addAtom(Atom{Element: periodic.MustLookup("*")}, false)
		return nil
	}
	if sym, ok := organicAromatic[c]; ok {
		p.pos++
		p.addAtom(Atom{Element: periodic.MustLookup(sym), Aromatic: true}, true)
		return nil
	}
	return p.fail(start, "unexpected character '"+string(c)+"'")
}

func (p *parser) bracketAtom() error {
	open := p.pos
	p.pos++ // '['
	a := Atom{Bracket: true}

	a.Isotope = p.readNumber()

	if err := p.readElement(&a); err != nil {
		return err
	}

	if p.peek() == '@' {
		p.pos++
		a.Chirality = "@"
		if p.peek() == '@' {
			p.pos++
			a.Chirality = "@@"
		}
	}

	if p.peek() == 'H' {
		p.pos++
		a.Hydrogens = 1
		if n := p.readNumber(); p.lastNumberLen > 0 {
			a.Hydrogens = n
		}
	}

	if c := p.peek(); c == '+' || c == '-' {
		sign := 1
		if c == '-' {
			sign = -1
		}
		p.pos++
		n := p.readNumber()
		if p.lastNumberLen == 0 {
			n = 1
			for p.peek() == c {
				n++
				p.pos++
			}
		}
		a.Charge = sign * n
	}

	if p.peek() == ':' {
		p.pos++
		a.Class = p.readNumber()
		if p.lastNumberLen == 0 {
			return p.fail(p.pos, "atom class without number")
		}
	}

	if p.peek() != ']' {
		if p.pos >= len(p.in) {
			return p.fail(open, "unclosed bracket atom")
		}
		return p.fail(p.pos, "unexpected character in bracket atom")
	}
	p.pos++
	p.addAtom(a, false)
	return nil
}

func (p *parser) readElement(a *Atom) error {
	start := p.pos
	c := p.peek()
	switch {
	case c == '*':
		p.pos++
		a.Element = periodic.MustLookup("*")
		return nil
	case c >= 'A' && c <= 'Z':
		if p.pos+1 < len(p.in) {
			if e, ok := periodic.Lookup(p.in[p.pos : p.pos+2]); ok {
				p.pos += 2
				a.Element = e
				return nil
			}
		}
		if e, ok := periodic.Lookup(string(c)); ok {
			p.pos++
			a.Element = e
			return nil
		}
	case c >= 'a' && c <= 'z':
		if p.pos+1 < len(p.in) {
			if sym, ok := bracketAromatic[p.in[p.pos:p.pos+2]]; ok {
				p.pos += 2
				a.Element = periodic.MustLookup(sym)
				a.Aromatic = true
				return nil
			}
		}
		if sym, ok := bracketAromatic[string(c)]; ok {
			p.pos++
			a.Element = periodic.MustLookup(sym)
			a.Aromatic = true
			return nil
		}
	}
	return p.fail(start, "unknown element in bracket atom")
}

func (p *parser) peek() byte {
	if p.pos < len(p.in) {
		return p.in[p.pos]
	}
	return 0
}

// readNumber consumes a run of digits. lastNumberLen records how many were read so
// that an explicit 0 can be told apart from no number.
func (p *parser) readNumber() int {
	start := p.pos
	n := 0
	for p.pos < len(p.in) && isDigit(p.in[p.pos]) {
		n = n*10 + int(p.in[p.pos]-'0')
		p.pos++
	}
	p.lastNumberLen = p.pos - start
	return n
}
