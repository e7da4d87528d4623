package r1cs

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/giuliop/circbridge/field"
	"github.com/giuliop/circbridge/nizk"
)

var (
	// ErrMissingWitnessValue is returned when a variable the bridge needs to
	// assign has no entry in the supplied value map.
	ErrMissingWitnessValue = errors.New("missing witness value")
	// ErrUnsatisfiableInstance is returned when the assembled witness and
	// public inputs do not satisfy the constraint system; this is the
	// satisfiability gate that MUST run before any NIZK proving call (§4.4).
	ErrUnsatisfiableInstance = errors.New("unsatisfiable instance")
	// ErrEmptyConstraintSystem is returned by Build on an R1CS with zero
	// constraints; there is nothing to prove.
	ErrEmptyConstraintSystem = errors.New("empty constraint system")
	// ErrUnsupportedVarType is returned when a Chall or RoundWit variable is
	// present but the bridge was not asked to run in extended mode.
	ErrUnsupportedVarType = errors.New("unsupported variable type for this bridge mode")
)

// Bridge renumbers an R1CS into the column layout the NIZK library expects
// (§9 Open Question, resolved against the spartan.rs convention): witness
// variables get ids 0..W-1 in declaration order, the constant gets id W, and
// public-input variables get ids W+1..W+I in declaration order.
type Bridge struct {
	Prover nizk.Prover
}

// NewBridge returns a Bridge driven by the given NIZK library implementation.
func NewBridge(p nizk.Prover) *Bridge {
	return &Bridge{Prover: p}
}

// Built is the renumbered artifact ready to hand to the NIZK library.
type Built struct {
	Gens     nizk.Gens
	Instance nizk.Instance
	Wit      [][32]byte
	Inp      [][32]byte
	ConstID  int
}

// Layout is the witness-independent half of a Build: the renumbering, the
// matrices, and the Gens/Instance constructed from them. A ProofDriver
// session reaches this point (ParamsReady) before it ever needs a witness,
// which lets Gens/Instance construction happen once per circuit shape and
// be reused across many proving sessions.
type Layout struct {
	witOrder, instOrder []Var
	trans               map[Var]int
	constID             int
	modulus             *big.Int

	Gens     nizk.Gens
	Instance nizk.Instance
}

// NumWit and NumInp report the renumbered witness/public-input counts.
func (l *Layout) NumWit() int { return len(l.witOrder) }
func (l *Layout) NumInp() int { return len(l.instOrder) }

// ConstID is the renumbered id reserved for the constant 1.
func (l *Layout) ConstID() int { return l.constID }

// BuildLayout renumbers r and constructs its NIZK Instance and Gens, without
// requiring or checking any witness assignment. extended admits Chall and
// RoundWit variables (folded into the Inst and witness buckets
// respectively); a non-extended R1CS containing either is rejected with
// ErrUnsupportedVarType.
func (b *Bridge) BuildLayout(r *R1CS, extended bool) (*Layout, error) {
	if err := field.CheckModulus(r.Modulus); err != nil {
		return nil, err
	}
	if len(r.Constraints) == 0 {
		return nil, ErrEmptyConstraintSystem
	}

	var witOrder, instOrder []Var
	for _, v := range r.Vars {
		switch v.Type {
		case FinalWit:
			witOrder = append(witOrder, v)
		case RoundWit:
			if !extended {
				return nil, fmt.Errorf("%w: %v", ErrUnsupportedVarType, v)
			}
			witOrder = append(witOrder, v)
		case Inst:
			instOrder = append(instOrder, v)
		case Chall:
			if !extended {
				return nil, fmt.Errorf("%w: %v", ErrUnsupportedVarType, v)
			}
			instOrder = append(instOrder, v)
		default:
			return nil, fmt.Errorf("r1cs: unknown variable type %v", v.Type)
		}
	}

	numWit := len(witOrder)
	constID := numWit
	numInp := len(instOrder)

	trans := make(map[Var]int, numWit+numInp)
	for i, v := range witOrder {
		trans[v] = i
	}
	for i, v := range instOrder {
		trans[v] = constID + 1 + i
	}

	a := make([]nizk.Triple, 0)
	bm := make([]nizk.Triple, 0)
	c := make([]nizk.Triple, 0)
	for row, cons := range r.Constraints {
		var errLc error
		a, errLc = appendLc(a, row, cons.A, constID, trans, r.Modulus)
		if errLc != nil {
			return nil, errLc
		}
		bm, errLc = appendLc(bm, row, cons.B, constID, trans, r.Modulus)
		if errLc != nil {
			return nil, errLc
		}
		c, errLc = appendLc(c, row, cons.C, constID, trans, r.Modulus)
		if errLc != nil {
			return nil, errLc
		}
	}

	numCons := len(r.Constraints)
	gens := b.Prover.NewGens(numCons, numWit, numInp)
	inst, err := b.Prover.NewInstance(numCons, numWit, numInp, a, bm, c)
	if err != nil {
		return nil, fmt.Errorf("r1cs: building instance: %w", err)
	}

	return &Layout{
		witOrder: witOrder, instOrder: instOrder, trans: trans,
		constID: constID, modulus: r.Modulus,
		Gens: gens, Instance: inst,
	}, nil
}

// EncodeInputs encodes only the public-input vector, in renumbered order,
// without a witness or a satisfiability check: this is what a verifier (who
// never has the witness) calls to prepare the inp argument to Proof.Verify.
func (l *Layout) EncodeInputs(values map[Var]*big.Int) ([][32]byte, error) {
	return encodeValues(l.instOrder, values, l.modulus)
}

// Assign encodes values for every variable in the layout and runs the
// satisfiability gate (§4.4): this MUST succeed before any NIZK proving
// call, to catch witness-program bugs before an expensive prove.
func (l *Layout) Assign(values map[Var]*big.Int) (*Built, error) {
	wit, err := encodeValues(l.witOrder, values, l.modulus)
	if err != nil {
		return nil, err
	}
	inp, err := encodeValues(l.instOrder, values, l.modulus)
	if err != nil {
		return nil, err
	}
	sat, err := l.Instance.IsSat(wit, inp)
	if err != nil {
		return nil, fmt.Errorf("r1cs: satisfiability check: %w", err)
	}
	if !sat {
		return nil, ErrUnsatisfiableInstance
	}
	return &Built{Gens: l.Gens, Instance: l.Instance, Wit: wit, Inp: inp, ConstID: l.constID}, nil
}

// Build is the one-shot convenience path: BuildLayout followed by Assign.
func (b *Bridge) Build(r *R1CS, values map[Var]*big.Int, extended bool) (*Built, error) {
	layout, err := b.BuildLayout(r, extended)
	if err != nil {
		return nil, err
	}
	return layout.Assign(values)
}

func encodeValues(vars []Var, values map[Var]*big.Int, modulus *big.Int) ([][32]byte, error) {
	out := make([][32]byte, len(vars))
	for i, v := range vars {
		val, ok := values[v]
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrMissingWitnessValue, v)
		}
		enc, err := field.Encode(val, modulus)
		if err != nil {
			return nil, fmt.Errorf("r1cs: encoding %v: %w", v, err)
		}
		out[i] = enc
	}
	return out, nil
}

func appendLc(triples []nizk.Triple, row int, lc Lc, constID int, trans map[Var]int, modulus *big.Int) ([]nizk.Triple, error) {
	if lc.Constant != nil && lc.Constant.Sign() != 0 {
		enc, err := field.Encode(new(big.Int).Mod(lc.Constant, modulus), modulus)
		if err != nil {
			return nil, err
		}
		triples = append(triples, nizk.Triple{Row: row, Col: constID, Val: enc})
	}
	for _, m := range lc.Terms {
		col, ok := trans[m.Var]
		if !ok {
			return nil, fmt.Errorf("r1cs: constraint references undeclared variable %v", m.Var)
		}
		enc, err := field.Encode(new(big.Int).Mod(m.Coeff, modulus), modulus)
		if err != nil {
			return nil, err
		}
		triples = append(triples, nizk.Triple{Row: row, Col: col, Val: enc})
	}
	return triples, nil
}
