package ir

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrEvalDomain is wrapped by every operator-evaluation failure: an unbound
// variable, an out-of-range tuple index, an array select that has neither an
// explicit entry nor a default, or an op kind EvalOp does not handle.
var ErrEvalDomain = errors.New("eval domain error")

// EvalOp dispatches on op.Kind and returns the Value it computes, exactly as
// §9's "Polymorphic Op evaluator" prescribes: one large switch rather than
// per-op virtual calls, since this is squarely the evaluator's hot path.
func EvalOp(op Op, args []Value, vars map[string]Value, modulus *big.Int) (Value, error) {
	switch op.Kind {
	case OpVar:
		v, ok := vars[op.VarName]
		if !ok {
			return Value{}, fmt.Errorf("%w: unbound variable %q", ErrEvalDomain, op.VarName)
		}
		return v, nil

	case OpConst:
		return op.Const, nil

	case OpPfAdd:
		return NewField(new(big.Int).Add(args[0].n, args[1].n), modulus), nil

	case OpPfMul:
		return NewField(new(big.Int).Mul(args[0].n, args[1].n), modulus), nil

	case OpPfNeg:
		return NewField(new(big.Int).Neg(args[0].n), modulus), nil

	case OpBvAdd:
		w := args[0].bvWidth
		return NewBitVector(new(big.Int).Add(args[0].n, args[1].n), w), nil

	case OpBvMul:
		w := args[0].bvWidth
		return NewBitVector(new(big.Int).Mul(args[0].n, args[1].n), w), nil

	case OpBoolAnd:
		return NewBool(args[0].b && args[1].b), nil

	case OpBoolOr:
		return NewBool(args[0].b || args[1].b), nil

	case OpBoolNot:
		return NewBool(!args[0].b), nil

	case OpEq:
		return NewBool(Equal(args[0], args[1])), nil

	case OpBvUlt:
		return NewBool(args[0].n.Cmp(args[1].n) < 0), nil

	case OpIte:
		if args[0].b {
			return args[1], nil
		}
		return args[2], nil

	case OpTuple:
		return NewTuple(args...), nil

	case OpField:
		elems := args[0].tuple
		if op.Index < 0 || op.Index >= len(elems) {
			return Value{}, fmt.Errorf("%w: tuple field index %d out of range (len %d)",
				ErrEvalDomain, op.Index, len(elems))
		}
		return elems[op.Index], nil

	case OpUpdate:
		elems := args[0].tuple
		if op.Index < 0 || op.Index >= len(elems) {
			return Value{}, fmt.Errorf("%w: tuple update index %d out of range (len %d)",
				ErrEvalDomain, op.Index, len(elems))
		}
		updated := append([]Value(nil), elems...)
		updated[op.Index] = args[1]
		return NewTuple(updated...), nil

	case OpStore:
		return args[0].Store(args[1], args[2]), nil

	case OpSelect:
		result, ok := args[0].Select(args[1])
		if !ok {
			return Value{}, fmt.Errorf("%w: select on missing key with no default", ErrEvalDomain)
		}
		return result, nil

	case OpUbvToPf:
		return NewField(args[0].n, modulus), nil

	case OpFill:
		return NewArray(op.FillKey, args[0].Sort(), args[0], op.FillSize), nil

	default:
		return Value{}, fmt.Errorf("%w: unhandled op %v", ErrEvalDomain, op.Kind)
	}
}
