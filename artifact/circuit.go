package artifact

import (
	"io"

	"github.com/giuliop/circbridge/field"
	"github.com/giuliop/circbridge/r1cs"
)

// WriteCircuit serializes cs, versioned, to w. It rejects a circuit whose
// modulus is not the fixed NIZK field (§4.1): an artifact that can never be
// proven is not worth persisting.
func WriteCircuit(w io.Writer, cs *r1cs.R1CS) error {
	if err := field.CheckModulus(cs.Modulus); err != nil {
		return err
	}
	if err := writeVersion(w); err != nil {
		return err
	}

	if err := writeInt(w, len(cs.Vars)); err != nil {
		return err
	}
	for _, v := range cs.Vars {
		if err := writeVar(w, v); err != nil {
			return err
		}
	}

	if err := writeInt(w, len(cs.Constraints)); err != nil {
		return err
	}
	for _, c := range cs.Constraints {
		for _, lc := range []r1cs.Lc{c.A, c.B, c.C} {
			if err := writeLc(w, lc); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadCircuit deserializes a circuit written by WriteCircuit.
func ReadCircuit(r io.Reader) (*r1cs.R1CS, error) {
	if err := checkVersion(r); err != nil {
		return nil, err
	}

	cs := r1cs.New(field.Modulus)

	numVars, err := readInt(r)
	if err != nil {
		return nil, err
	}
	cs.Vars = make([]r1cs.Var, numVars)
	for i := range cs.Vars {
		if cs.Vars[i], err = readVar(r); err != nil {
			return nil, err
		}
	}

	numCons, err := readInt(r)
	if err != nil {
		return nil, err
	}
	cs.Constraints = make([]r1cs.Constraint, numCons)
	for i := range cs.Constraints {
		a, err := readLc(r)
		if err != nil {
			return nil, err
		}
		b, err := readLc(r)
		if err != nil {
			return nil, err
		}
		c, err := readLc(r)
		if err != nil {
			return nil, err
		}
		cs.Constraints[i] = r1cs.Constraint{A: a, B: b, C: c}
	}
	return cs, nil
}

func writeVar(w io.Writer, v r1cs.Var) error {
	if _, err := w.Write([]byte{byte(v.Type)}); err != nil {
		return err
	}
	return writeInt(w, v.ID)
}

func readVar(r io.Reader) (r1cs.Var, error) {
	var tb [1]byte
	if _, err := io.ReadFull(r, tb[:]); err != nil {
		return r1cs.Var{}, err
	}
	id, err := readInt(r)
	if err != nil {
		return r1cs.Var{}, err
	}
	return r1cs.Var{Type: r1cs.VarType(tb[0]), ID: id}, nil
}

func writeLc(w io.Writer, lc r1cs.Lc) error {
	if err := writeBigInt(w, lc.Constant); err != nil {
		return err
	}
	if err := writeInt(w, len(lc.Terms)); err != nil {
		return err
	}
	for _, m := range lc.Terms {
		if err := writeVar(w, m.Var); err != nil {
			return err
		}
		if err := writeBigInt(w, m.Coeff); err != nil {
			return err
		}
	}
	return nil
}

func readLc(r io.Reader) (r1cs.Lc, error) {
	constant, err := readBigInt(r)
	if err != nil {
		return r1cs.Lc{}, err
	}
	if constant.Sign() == 0 {
		// writeBigInt writes nil and zero alike; read back NewLc's nil zero.
		constant = nil
	}
	n, err := readInt(r)
	if err != nil {
		return r1cs.Lc{}, err
	}
	terms := make([]r1cs.Monomial, n)
	for i := range terms {
		v, err := readVar(r)
		if err != nil {
			return r1cs.Lc{}, err
		}
		coeff, err := readBigInt(r)
		if err != nil {
			return r1cs.Lc{}, err
		}
		terms[i] = r1cs.Monomial{Var: v, Coeff: coeff}
	}
	return r1cs.Lc{Constant: constant, Terms: terms}, nil
}
