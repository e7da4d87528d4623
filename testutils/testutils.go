// Package testutils builds the concrete end-to-end scenarios used across the
// suite: SWC programs and R1CS circuits matching a fixed set of named
// scenarios, so every package's tests exercise the same, independently
// checkable fixtures instead of ad hoc ones. There is no Algorand-sandbox
// wrapper here: once the PuyaPy/TEAL verifier surface was dropped (see
// verifier's doc.go) there was nothing left to deploy or call, and a live
// algokit sandbox is not something this module's own test suite can depend
// on.
package testutils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"

	"github.com/giuliop/circbridge/field"
	"github.com/giuliop/circbridge/ir"
	"github.com/giuliop/circbridge/r1cs"
	"github.com/giuliop/circbridge/swc"
)

// SmallModulus is the tiny field used by the S1-S4 SWC scenarios.
var SmallModulus = big.NewInt(7)

func constField(v uint64, modulus *big.Int) *ir.Term {
	return ir.NewTerm(ir.ConstOp(ir.NewFieldUint(v, modulus)), ir.Field())
}

func iteField(cond, then, els *ir.Term) *ir.Term {
	return ir.NewTerm(ir.Op{Kind: ir.OpIte}, ir.Field(), cond, then, els)
}

// BuildS1 returns the Program for scenario S1: field modulus 7, a single
// stage with no inputs and output Field(0).
func BuildS1() *swc.Program {
	p := swc.NewProgram()
	zero := constField(0, SmallModulus)
	if err := p.AddStage(nil, []*ir.Term{zero}); err != nil {
		panic(fmt.Sprintf("testutils: BuildS1: %v", err))
	}
	return p
}

// BuildS2 returns the Program for scenario S2: modulus 7, four stages with
// constant outputs [0] / [1,4] / [6] / [0].
func BuildS2() *swc.Program {
	p := swc.NewProgram()
	stageOutputs := [][]uint64{{0}, {1, 4}, {6}, {0}}
	for _, outs := range stageOutputs {
		terms := make([]*ir.Term, len(outs))
		for i, v := range outs {
			terms[i] = constField(v, SmallModulus)
		}
		if err := p.AddStage(nil, terms); err != nil {
			panic(fmt.Sprintf("testutils: BuildS2: %v", err))
		}
	}
	return p
}

// BuildS3 returns the Program for scenario S3 (one stage with inputs
// a=Bool, b=Field; outputs [b, Ite(a,1,0)]) together with the b and a term
// handles, so BuildS4 can extend the same DAG across a stage boundary.
func BuildS3() (p *swc.Program, bTerm, aTerm *ir.Term) {
	p = swc.NewProgram()
	aTerm = ir.NewTerm(ir.Var("a", ir.Bool()), ir.Bool())
	bTerm = ir.NewTerm(ir.Var("b", ir.Field()), ir.Field())
	one := constField(1, SmallModulus)
	zero := constField(0, SmallModulus)
	ite := iteField(aTerm, one, zero)

	inputs := []swc.Input{
		{Name: "a", Sort: ir.Bool()},
		{Name: "b", Sort: ir.Field()},
	}
	if err := p.AddStage(inputs, []*ir.Term{bTerm, ite}); err != nil {
		panic(fmt.Sprintf("testutils: BuildS3: %v", err))
	}
	return p, bTerm, aTerm
}

// BuildS4 returns the Program for scenario S4: S3 followed by a stage
// introducing c=Field(3), outputs [b+c, Ite(a,1,0), Ite(a,0,1)], reusing b
// and a across the stage boundary to exercise cross-stage variable reuse.
func BuildS4() *swc.Program {
	p, bTerm, aTerm := BuildS3()

	cTerm := ir.NewTerm(ir.Var("c", ir.Field()), ir.Field())
	sum := ir.NewTerm(ir.Op{Kind: ir.OpPfAdd}, ir.Field(), bTerm, cTerm)
	one := constField(1, SmallModulus)
	zero := constField(0, SmallModulus)
	iteTrue := iteField(aTerm, one, zero)
	iteFalse := iteField(aTerm, zero, one)

	inputs := []swc.Input{{Name: "c", Sort: ir.Field()}}
	if err := p.AddStage(inputs, []*ir.Term{sum, iteTrue, iteFalse}); err != nil {
		panic(fmt.Sprintf("testutils: BuildS4: %v", err))
	}
	return p
}

// BuildS5CS returns the R1CS for scenario S5: the trivial circuit w*1 = p,
// tying one witness variable to one public input, together with the two
// Vars so a caller can assign them.
func BuildS5CS() (cs *r1cs.R1CS, w, p r1cs.Var) {
	cs = r1cs.New(field.Modulus)
	w = cs.AddVar(r1cs.FinalWit)
	p = cs.AddVar(r1cs.Inst)
	one := big.NewInt(1)
	a := r1cs.NewLc(nil).Add(w, one)
	b := r1cs.NewLc(one)
	c := r1cs.NewLc(nil).Add(p, one)
	cs.AddConstraint(a, b, c)
	return cs, w, p
}

// BuildS5Program returns the SWC program matching BuildS5CS: a single stage
// with one Field input "secret", whose two outputs are the same term reused
// — one feeding BuildS5CS's witness variable, one feeding its public
// variable. publicOutputs names output position 1 (the second output) as
// the slice a verifier's public-only program needs.
func BuildS5Program() (program *swc.Program, publicOutputs []int) {
	p := swc.NewProgram()
	secret := ir.NewTerm(ir.Var("secret", ir.Field()), ir.Field())
	if err := p.AddStage(
		[]swc.Input{{Name: "secret", Sort: ir.Field()}},
		[]*ir.Term{secret, secret},
	); err != nil {
		panic(fmt.Sprintf("testutils: BuildS5Program: %v", err))
	}
	return p, []int{1}
}

// BuildS6BadModulusCS returns an R1CS whose field modulus is one more than
// the fixed NIZK modulus, for scenario S6's modulus-guard check.
func BuildS6BadModulusCS() *r1cs.R1CS {
	badModulus := new(big.Int).Add(field.Modulus, big.NewInt(1))
	cs := r1cs.New(badModulus)
	w := cs.AddVar(r1cs.FinalWit)
	one := big.NewInt(1)
	lc := r1cs.NewLc(nil).Add(w, one)
	cs.AddConstraint(lc, lc, lc)
	return cs
}

// RandomBigInt returns a random integer greater than 2 and less than
// 2^maxBits.
// maxBits defaults to 32 when less than 1.
func RandomBigInt(maxBits int64) *big.Int {
	if maxBits < 1 {
		maxBits = 32
	}
	max := new(big.Int).Exp(big.NewInt(2), big.NewInt(maxBits), nil)
	for {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		if n.Cmp(big.NewInt(2)) > 0 {
			return n
		}
	}
}

// CreateDirectoryIfNeeded creates dir if it does not already exist.
func CreateDirectoryIfNeeded(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return os.Mkdir(dir, 0o755)
	} else if err != nil {
		return err
	} else if !info.IsDir() {
		return fmt.Errorf("file %s exists but is not a directory", dir)
	}
	return nil
}
