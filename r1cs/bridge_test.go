package r1cs

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giuliop/circbridge/field"
	"github.com/giuliop/circbridge/nizk/refnizk"
)

// randomShapedCS builds an R1CS with a random number of FinalWit and Inst
// vars (1-5 each) and one constraint summing every var, for exercising
// renumbering properties across varied shapes rather than one fixed case.
func randomShapedCS(t *testing.T) (cs *R1CS, witVars, instVars []Var) {
	t.Helper()
	numWit := randIntn(t, 5) + 1
	numInst := randIntn(t, 5) + 1
	cs = New(field.Modulus)
	one := big.NewInt(1)
	lc := NewLc(nil)
	for i := 0; i < numWit; i++ {
		w := cs.AddVar(FinalWit)
		witVars = append(witVars, w)
		lc = lc.Add(w, one)
	}
	for i := 0; i < numInst; i++ {
		p := cs.AddVar(Inst)
		instVars = append(instVars, p)
		lc = lc.Add(p, one)
	}
	cs.AddConstraint(lc, NewLc(one), lc)
	return cs, witVars, instVars
}

func randIntn(t *testing.T, n int64) int {
	t.Helper()
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	require.NoError(t, err)
	return int(v.Int64())
}

func oneConstraintCS(t *testing.T) (*R1CS, Var) {
	t.Helper()
	cs := New(field.Modulus)
	x := cs.AddVar(FinalWit)
	one := big.NewInt(1)
	lc := NewLc(nil).Add(x, one)
	cs.AddConstraint(lc, lc, lc)
	return cs, x
}

func TestBuildLayoutRenumbersWitnessFirstThenConst(t *testing.T) {
	cs := New(field.Modulus)
	w1 := cs.AddVar(FinalWit)
	w2 := cs.AddVar(FinalWit)
	p1 := cs.AddVar(Inst)
	one := big.NewInt(1)
	lc := NewLc(nil).Add(w1, one).Add(w2, one).Add(p1, one)
	cs.AddConstraint(lc, lc, lc)

	bridge := NewBridge(refnizk.New())
	layout, err := bridge.BuildLayout(cs, false)
	require.NoError(t, err)

	require.Equal(t, 2, layout.NumWit())
	require.Equal(t, 1, layout.NumInp())
	require.Equal(t, 2, layout.ConstID())
	require.Equal(t, 0, layout.trans[w1])
	require.Equal(t, 1, layout.trans[w2])
	require.Equal(t, 3, layout.trans[p1])
}

func TestBuildLayoutRejectsFieldMismatch(t *testing.T) {
	bad := new(big.Int).Add(field.Modulus, big.NewInt(1))
	cs := New(bad)
	w := cs.AddVar(FinalWit)
	lc := NewLc(nil).Add(w, big.NewInt(1))
	cs.AddConstraint(lc, lc, lc)

	_, err := NewBridge(refnizk.New()).BuildLayout(cs, false)
	require.ErrorIs(t, err, field.ErrFieldMismatch)
}

func TestBuildLayoutRejectsEmptyConstraintSystem(t *testing.T) {
	cs := New(field.Modulus)
	_, err := NewBridge(refnizk.New()).BuildLayout(cs, false)
	require.ErrorIs(t, err, ErrEmptyConstraintSystem)
}

func TestBuildLayoutRejectsChallWithoutExtended(t *testing.T) {
	cs := New(field.Modulus)
	w := cs.AddVar(FinalWit)
	_ = cs.AddVar(Chall)
	lc := NewLc(nil).Add(w, big.NewInt(1))
	cs.AddConstraint(lc, lc, lc)

	_, err := NewBridge(refnizk.New()).BuildLayout(cs, false)
	require.ErrorIs(t, err, ErrUnsupportedVarType)
}

func TestBuildAssignSatisfiableRoundTrip(t *testing.T) {
	cs, x := oneConstraintCS(t)
	bridge := NewBridge(refnizk.New())

	values := map[Var]*big.Int{x: big.NewInt(1)}
	built, err := bridge.Build(cs, values, false)
	require.NoError(t, err)
	require.Len(t, built.Wit, 1)
	require.Empty(t, built.Inp)
}

func TestAssignRejectsUnsatisfiableInstance(t *testing.T) {
	// w*1 = w+1 has no solution in any field.
	cs := New(field.Modulus)
	w := cs.AddVar(FinalWit)
	one := big.NewInt(1)
	a := NewLc(nil).Add(w, one)
	b := NewLc(one)
	c := NewLc(one).Add(w, one)
	cs.AddConstraint(a, b, c)

	bridge := NewBridge(refnizk.New())
	_, err := bridge.Build(cs, map[Var]*big.Int{w: big.NewInt(1)}, false)
	require.ErrorIs(t, err, ErrUnsatisfiableInstance)
}

func TestAssignRejectsMissingWitnessValue(t *testing.T) {
	cs, _ := oneConstraintCS(t)
	bridge := NewBridge(refnizk.New())
	_, err := bridge.Build(cs, map[Var]*big.Int{}, false)
	require.ErrorIs(t, err, ErrMissingWitnessValue)
}

// TestBuildLayoutRenumberingIsTotalAndInjective checks property 2 (§8):
// trans is a bijection onto {0,...,W+I} for arbitrary constraint-system
// shapes, not just one hand-built case.
func TestBuildLayoutRenumberingIsTotalAndInjective(t *testing.T) {
	const trials = 10
	for trial := 0; trial < trials; trial++ {
		cs, witVars, instVars := randomShapedCS(t)
		layout, err := NewBridge(refnizk.New()).BuildLayout(cs, false)
		require.NoError(t, err)

		W := len(witVars)
		I := len(instVars)
		require.Equal(t, W, layout.NumWit())
		require.Equal(t, I, layout.NumInp())
		require.Equal(t, W, layout.ConstID())

		seen := make(map[int]bool, W+I+1)
		for _, v := range witVars {
			id, ok := layout.trans[v]
			require.True(t, ok)
			require.False(t, seen[id], "trial %d: id %d reused", trial, id)
			seen[id] = true
			require.GreaterOrEqual(t, id, 0)
			require.Less(t, id, W)
		}
		for _, v := range instVars {
			id, ok := layout.trans[v]
			require.True(t, ok)
			require.False(t, seen[id], "trial %d: id %d reused", trial, id)
			seen[id] = true
			require.Greater(t, id, W)
			require.LessOrEqual(t, id, W+I)
		}
		seen[layout.ConstID()] = true
		require.Len(t, seen, W+I+1, "trial %d: trans is not onto {0,...,W+I}", trial)
	}
}

// TestBuildProveIsDeterministic checks property 1 (§8): two independent
// builds of the same constraint system and witness produce byte-identical
// Wit/Inp vectors (and hence identical renumbered Instance inputs) across
// arbitrarily shaped circuits.
func TestBuildProveIsDeterministic(t *testing.T) {
	const trials = 10
	for trial := 0; trial < trials; trial++ {
		cs, witVars, instVars := randomShapedCS(t)
		values := make(map[Var]*big.Int, len(witVars)+len(instVars))
		for _, v := range witVars {
			values[v] = big.NewInt(1)
		}
		for _, v := range instVars {
			values[v] = big.NewInt(1)
		}

		built1, err := NewBridge(refnizk.New()).Build(cs, values, false)
		require.NoError(t, err)
		built2, err := NewBridge(refnizk.New()).Build(cs, values, false)
		require.NoError(t, err)

		require.Equal(t, built1.Wit, built2.Wit, "trial %d: Wit diverged", trial)
		require.Equal(t, built1.Inp, built2.Inp, "trial %d: Inp diverged", trial)
	}
}

func TestEncodeInputsDoesNotRequireWitness(t *testing.T) {
	cs := New(field.Modulus)
	w := cs.AddVar(FinalWit)
	p := cs.AddVar(Inst)
	one := big.NewInt(1)
	a := NewLc(nil).Add(w, one)
	b := NewLc(one)
	c := NewLc(nil).Add(p, one)
	cs.AddConstraint(a, b, c)

	layout, err := NewBridge(refnizk.New()).BuildLayout(cs, false)
	require.NoError(t, err)

	inp, err := layout.EncodeInputs(map[Var]*big.Int{p: big.NewInt(1)})
	require.NoError(t, err)
	require.Len(t, inp, 1)
}
