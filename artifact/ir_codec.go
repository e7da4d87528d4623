package artifact

import (
	"fmt"
	"io"
	"math/big"

	"github.com/giuliop/circbridge/ir"
)

func writeSort(w io.Writer, s ir.Sort) error {
	if _, err := w.Write([]byte{byte(s.Kind)}); err != nil {
		return err
	}
	switch s.Kind {
	case ir.SortBitVector:
		return writeInt(w, s.Width)
	case ir.SortTuple:
		if err := writeInt(w, len(s.Elems)); err != nil {
			return err
		}
		for _, e := range s.Elems {
			if err := writeSort(w, e); err != nil {
				return err
			}
		}
		return nil
	case ir.SortArray:
		if err := writeSort(w, *s.Key); err != nil {
			return err
		}
		if err := writeSort(w, *s.Elem); err != nil {
			return err
		}
		return writeInt(w, s.Size)
	default:
		return nil
	}
}

func readSort(r io.Reader) (ir.Sort, error) {
	var kb [1]byte
	if _, err := io.ReadFull(r, kb[:]); err != nil {
		return ir.Sort{}, err
	}
	kind := ir.SortKind(kb[0])
	switch kind {
	case ir.SortBool:
		return ir.Bool(), nil
	case ir.SortField:
		return ir.Field(), nil
	case ir.SortInt:
		return ir.Int(), nil
	case ir.SortBitVector:
		w, err := readInt(r)
		if err != nil {
			return ir.Sort{}, err
		}
		return ir.BitVector(w), nil
	case ir.SortTuple:
		n, err := readInt(r)
		if err != nil {
			return ir.Sort{}, err
		}
		elems := make([]ir.Sort, n)
		for i := range elems {
			elems[i], err = readSort(r)
			if err != nil {
				return ir.Sort{}, err
			}
		}
		return ir.Tuple(elems...), nil
	case ir.SortArray:
		key, err := readSort(r)
		if err != nil {
			return ir.Sort{}, err
		}
		elem, err := readSort(r)
		if err != nil {
			return ir.Sort{}, err
		}
		size, err := readInt(r)
		if err != nil {
			return ir.Sort{}, err
		}
		return ir.Array(key, elem, size), nil
	default:
		return ir.Sort{}, fmt.Errorf("artifact: unknown sort kind %d", kind)
	}
}

func writeValue(w io.Writer, v ir.Value) error {
	if _, err := w.Write([]byte{byte(v.Kind())}); err != nil {
		return err
	}
	switch v.Kind() {
	case ir.KindBool:
		return writeBool(w, v.AsBool())
	case ir.KindField, ir.KindInt:
		return writeBigInt(w, v.AsInt())
	case ir.KindBitVector:
		if err := writeInt(w, v.BitVectorWidth()); err != nil {
			return err
		}
		return writeBigInt(w, v.AsInt())
	case ir.KindTuple:
		elems := v.TupleElems()
		if err := writeInt(w, len(elems)); err != nil {
			return err
		}
		for _, e := range elems {
			if err := writeValue(w, e); err != nil {
				return err
			}
		}
		return nil
	case ir.KindArray:
		return fmt.Errorf("artifact: array values are not serializable (only used transiently during evaluation)")
	default:
		return fmt.Errorf("artifact: unknown value kind %d", v.Kind())
	}
}

func readValue(r io.Reader, modulus *big.Int) (ir.Value, error) {
	var kb [1]byte
	if _, err := io.ReadFull(r, kb[:]); err != nil {
		return ir.Value{}, err
	}
	kind := ir.ValueKind(kb[0])
	switch kind {
	case ir.KindBool:
		b, err := readBool(r)
		if err != nil {
			return ir.Value{}, err
		}
		return ir.NewBool(b), nil
	case ir.KindField:
		n, err := readBigInt(r)
		if err != nil {
			return ir.Value{}, err
		}
		return ir.NewField(n, modulus), nil
	case ir.KindInt:
		n, err := readBigInt(r)
		if err != nil {
			return ir.Value{}, err
		}
		return ir.NewInt(n), nil
	case ir.KindBitVector:
		width, err := readInt(r)
		if err != nil {
			return ir.Value{}, err
		}
		n, err := readBigInt(r)
		if err != nil {
			return ir.Value{}, err
		}
		return ir.NewBitVector(n, width), nil
	case ir.KindTuple:
		n, err := readInt(r)
		if err != nil {
			return ir.Value{}, err
		}
		elems := make([]ir.Value, n)
		for i := range elems {
			elems[i], err = readValue(r, modulus)
			if err != nil {
				return ir.Value{}, err
			}
		}
		return ir.NewTuple(elems...), nil
	default:
		return ir.Value{}, fmt.Errorf("artifact: unknown or unsupported value kind %d", kind)
	}
}

func writeOp(w io.Writer, op ir.Op) error {
	if _, err := w.Write([]byte{byte(op.Kind)}); err != nil {
		return err
	}
	switch op.Kind {
	case ir.OpVar:
		if err := writeString(w, op.VarName); err != nil {
			return err
		}
		return writeSort(w, op.VarSort)
	case ir.OpConst:
		return writeValue(w, op.Const)
	case ir.OpField, ir.OpUpdate:
		return writeInt(w, op.Index)
	case ir.OpFill:
		if err := writeSort(w, op.FillKey); err != nil {
			return err
		}
		return writeInt(w, op.FillSize)
	default:
		return nil
	}
}

func readOp(r io.Reader, modulus *big.Int) (ir.Op, error) {
	var kb [1]byte
	if _, err := io.ReadFull(r, kb[:]); err != nil {
		return ir.Op{}, err
	}
	kind := ir.OpKind(kb[0])
	switch kind {
	case ir.OpVar:
		name, err := readString(r)
		if err != nil {
			return ir.Op{}, err
		}
		s, err := readSort(r)
		if err != nil {
			return ir.Op{}, err
		}
		return ir.Var(name, s), nil
	case ir.OpConst:
		v, err := readValue(r, modulus)
		if err != nil {
			return ir.Op{}, err
		}
		return ir.ConstOp(v), nil
	case ir.OpField:
		i, err := readInt(r)
		if err != nil {
			return ir.Op{}, err
		}
		return ir.FieldProj(i), nil
	case ir.OpUpdate:
		i, err := readInt(r)
		if err != nil {
			return ir.Op{}, err
		}
		return ir.Update(i), nil
	case ir.OpFill:
		s, err := readSort(r)
		if err != nil {
			return ir.Op{}, err
		}
		size, err := readInt(r)
		if err != nil {
			return ir.Op{}, err
		}
		return ir.Fill(s, size), nil
	default:
		return ir.Op{Kind: kind}, nil
	}
}
