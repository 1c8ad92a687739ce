package smiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

func TestParse_AtomAndHydrogenCounts(t *testing.T) {
	tests := []struct {
		smiles string
		heavy  int
		bonds  int
		hs     int
	}{
		{"C", 1, 0, 4},
		{"CCO", 3, 2, 6},
		{"CC(=O)O", 4, 3, 4},
		{"c1ccccc1", 6, 6, 6},
		{"C1=CC=CC=C1", 6, 6, 6},
		{"n1ccccc1", 6, 6, 5},
		{"c1cc[nH]c1", 5, 5, 5},
		{"c1ccsc1", 5, 5, 4},
		{"c1ccoc1", 5, 5, 4},
		{"OS(=O)(=O)O", 5, 4, 2},
		{"N#N", 2, 1, 0},
		{"C#N", 2, 1, 1},
		{"[H]C([H])([H])[H]", 1, 0, 4},
		{"[13CH4]", 1, 0, 4},
		{"[NH4+]", 1, 0, 4},
		{"[Na+].[Cl-]", 2, 0, 0},
		{"C%10CC%10", 3, 3, 6},
		{"ClC(Cl)(Cl)Cl", 5, 4, 0},
		{"BrCCBr", 4, 3, 4},
		{"c1ccccc1-c1ccccc1", 12, 13, 10},
		{"CS(C)=O", 4, 3, 6},
		{"[CH2]", 1, 0, 2},
		{"O=C=O", 3, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			mol, err := Parse(tt.smiles)
			require.NoError(t, err)
			assert.Equal(t, tt.heavy, mol.HeavyAtomCount(), "heavy atoms")
			assert.Equal(t, tt.bonds, mol.NumBonds(), "bonds")
			assert.Equal(t, tt.hs, mol.HydrogenCount(), "hydrogens")
		})
	}
}

func TestParse_BracketAtom(t *testing.T) {
	mol, err := Parse("[13C@@H:7](F)(Cl)Br")
	require.NoError(t, err)
	a := mol.Atoms[0]
	assert.Equal(t, "C", a.Symbol())
	assert.Equal(t, 13, a.Isotope)
	assert.Equal(t, "@@", a.Chirality)
	assert.Equal(t, 1, a.Hydrogens)
	assert.Equal(t, 7, a.Class)
	assert.True(t, a.Bracket)
	assert.Equal(t, 3, mol.Degree(0))

	for smi, charge := range map[string]int{"[Fe+2]": 2, "[O--]": -2, "[N+]": 1, "[Cl-]": -1, "[Cu+++]": 3} {
		mol, err := Parse(smi)
		require.NoError(t, err, smi)
		assert.Equal(t, charge, mol.Atoms[0].Charge, smi)
	}
}

func TestParse_BondTypes(t *testing.T) {
	mol, err := Parse("C=CC#CC:C/C=C\\C")
	require.NoError(t, err)
	want := []BondType{Double, Single, Triple, Single, Aromatic, Single, Double, Single}
	got := make([]BondType, len(mol.Bonds))
	for i, b := range mol.Bonds {
		got[i] = b.Type
	}
	assert.Equal(t, want, got)
	assert.Equal(t, byte('/'), mol.Bonds[5].Stereo)
	assert.Equal(t, byte('\\'), mol.Bonds[7].Stereo)
}

func TestParse_RingBonds(t *testing.T) {
	mol, err := Parse("c1ccccc1c1ccccc1")
	require.NoError(t, err)

	bridge := mol.BondBetween(5, 6)
	require.GreaterOrEqual(t, bridge, 0)
	assert.False(t, mol.IsRingBond(bridge))
	assert.Equal(t, Single, mol.Bonds[bridge].Type)

	aromatic := 0
	for i, b := range mol.Bonds {
		if b.Type == Aromatic {
			aromatic++
			assert.True(t, mol.IsRingBond(i))
		}
	}
	assert.Equal(t, 12, aromatic)

	chain, err := Parse("CCC1CC1")
	require.NoError(t, err)
	assert.False(t, chain.IsRingAtom(0))
	assert.True(t, chain.IsRingAtom(2))
}

func TestParse_GraphView(t *testing.T) {
	mol, err := Parse("CC(C)C")
	require.NoError(t, err)
	g := mol.Graph()
	assert.Equal(t, 4, g.Nodes().Len())
	assert.Equal(t, 3, g.Edges().Len())
	assert.ElementsMatch(t, []int{0, 2, 3}, mol.Neighbors(1))
	assert.Equal(t, -1, mol.BondBetween(0, 2))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		smiles string
		pos    int
	}{
		{"", 0},
		{"C(", 2},
		{"C)", 1},
		{"C1CC", 1},
		{"C==C", 2},
		{"CXC", 1},
		{"[C", 0},
		{"C=", 1},
		{"(C)", 0},
		{"C11", 2},
		{"[Zz]", 1},
		{"C=1CC#1", 6},
		{"C%1", 1},
		{".C", 0},
		{"C.", 1},
		{"C..C", 2},
		{"c1cccc1", 0},
		{"c1ccnc1", 0},
		{"CC.c1cccc1", 3},
		{"=C", 0},
		{"C(=)C", 2},
		{"[C:]", 3},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			_, err := Parse(tt.smiles)
			require.Error(t, err)
			var pe *errors.ParseError
			require.True(t, errors.As(err, &pe), "got %T", err)
			assert.Equal(t, tt.smiles, pe.Input)
			assert.Equal(t, tt.pos, pe.Pos, pe.Reason)
		})
	}
}

func TestParse_KekulizableAromatics(t *testing.T) {
	for _, smi := range []string{
		"c1ccc2ccccc2c1",
		"c1ccc2cc3ccccc3cc2c1",
		"c1cc[nH]c1",
		"O=c1cc[nH]cc1",
		"C[n+]1ccccc1",
		"c1cc[cH-]c1",
		"c1ccccc1-c1ccccc1",
		"Cc1ccccc1.c1ccoc1",
	} {
		t.Run(smi, func(t *testing.T) {
			_, err := Parse(smi)
			assert.NoError(t, err)
		})
	}
}

func TestParseAll(t *testing.T) {
	mols, errs := ParseAll([]string{"CCO", "C1CC", "c1ccccc1"})
	require.Len(t, mols, 3)
	assert.NotNil(t, mols[0])
	assert.Nil(t, mols[1])
	assert.Error(t, errs[1])
	assert.NoError(t, errs[2])
}

func TestBondOrder(t *testing.T) {
	assert.Equal(t, 1.5, Aromatic.Order())
	assert.Equal(t, 3.0, Triple.Order())
	assert.Equal(t, "double", Double.String())
}
