// Package r1cs implements the rank-1 constraint system data model and the
// R1CSBridge that renumbers it into the fixed-interface NIZK shape (§4.4).
package r1cs

import "math/big"

// VarType classifies a Var the way the original target distinguishes
// prover-only from verifier-visible variables across a (possibly
// multi-round) proof session.
type VarType int

const (
	// Inst is a variable supplied as a public input, known to the verifier
	// from the start of the session.
	Inst VarType = iota
	// FinalWit is a variable only the prover knows, fixed by the time the
	// final constraint system is built.
	FinalWit
	// Chall is a verifier-supplied challenge revealed mid-session; only
	// meaningful in an extended, multi-round bridge (§9 Open Question).
	Chall
	// RoundWit is a prover-only variable computed in response to a Chall.
	RoundWit
)

func (t VarType) String() string {
	switch t {
	case Inst:
		return "Inst"
	case FinalWit:
		return "FinalWit"
	case Chall:
		return "Chall"
	case RoundWit:
		return "RoundWit"
	default:
		return "VarType(?)"
	}
}

// Var names one constraint-system variable by its type and its declaration
// index within that type (not yet the renumbered NIZK column id).
type Var struct {
	Type VarType
	ID   int
}

// Monomial is one coefficient*variable term of a linear combination.
type Monomial struct {
	Var   Var
	Coeff *big.Int
}

// Lc is a linear combination: a constant plus a list of coefficient*variable
// terms, in the order they were added. Duplicate variables are permitted;
// the bridge sums their contributions by construction (a sparse matrix
// tolerates repeated (row, col) entries).
type Lc struct {
	Constant *big.Int
	Terms    []Monomial
}

// NewLc returns the linear combination equal to the constant c (may be nil,
// meaning zero).
func NewLc(c *big.Int) Lc { return Lc{Constant: c} }

// Add appends coeff*v and returns the updated Lc.
func (l Lc) Add(v Var, coeff *big.Int) Lc {
	l.Terms = append(l.Terms, Monomial{Var: v, Coeff: coeff})
	return l
}

// Constraint is one row: A * B = C.
type Constraint struct {
	A, B, C Lc
}

// R1CS is the full constraint system before renumbering: every declared
// variable plus every constraint row, all in a single fixed field.
type R1CS struct {
	Modulus     *big.Int
	Vars        []Var
	Constraints []Constraint

	counts [4]int
}

// New returns an empty constraint system over modulus.
func New(modulus *big.Int) *R1CS {
	return &R1CS{Modulus: modulus}
}

// AddVar allocates the next Var of the given type and records it.
func (r *R1CS) AddVar(t VarType) Var {
	v := Var{Type: t, ID: r.counts[t]}
	r.counts[t]++
	r.Vars = append(r.Vars, v)
	return v
}

// AddConstraint appends one A*B=C row.
func (r *R1CS) AddConstraint(a, b, c Lc) {
	r.Constraints = append(r.Constraints, Constraint{A: a, B: b, C: c})
}
