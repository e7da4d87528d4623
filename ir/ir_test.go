package ir

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

var mod7 = big.NewInt(7)

func TestSortEqual(t *testing.T) {
	require.True(t, Bool().Equal(Bool()))
	require.False(t, Bool().Equal(Field()))
	require.True(t, BitVector(8).Equal(BitVector(8)))
	require.False(t, BitVector(8).Equal(BitVector(16)))
	require.True(t, Tuple(Bool(), Field()).Equal(Tuple(Bool(), Field())))
	require.False(t, Tuple(Bool()).Equal(Tuple(Bool(), Field())))
	require.True(t, Array(Field(), Bool(), 4).Equal(Array(Field(), Bool(), 4)))
	require.False(t, Array(Field(), Bool(), 4).Equal(Array(Field(), Bool(), 5)))
}

func TestValueCompareTotalOrder(t *testing.T) {
	a := NewFieldUint(1, mod7)
	b := NewFieldUint(2, mod7)
	require.True(t, Compare(a, b) < 0)
	require.True(t, Compare(b, a) > 0)
	require.Equal(t, 0, Compare(a, a))
	require.True(t, Equal(a, NewFieldUint(1, mod7)))
}

func TestFieldReducesModulo(t *testing.T) {
	v := NewField(big.NewInt(9), mod7)
	require.Equal(t, big.NewInt(2), v.AsInt())

	neg := NewField(big.NewInt(-1), mod7)
	require.Equal(t, big.NewInt(6), neg.AsInt())
}

func TestArraySelectDefaultAndStore(t *testing.T) {
	arr := NewArray(Field(), Field(), NewFieldUint(0, mod7), 4)
	key := NewFieldUint(2, mod7)

	v, ok := arr.Select(key)
	require.True(t, ok)
	require.True(t, Equal(v, NewFieldUint(0, mod7)))

	updated := arr.Store(key, NewFieldUint(5, mod7))
	v, ok = updated.Select(key)
	require.True(t, ok)
	require.True(t, Equal(v, NewFieldUint(5, mod7)))

	// original array is untouched
	v, ok = arr.Select(key)
	require.True(t, ok)
	require.True(t, Equal(v, NewFieldUint(0, mod7)))
}

func TestArrayNoDefaultMissingKey(t *testing.T) {
	arr := NewArrayNoDefault(Field(), Field(), 4)
	_, ok := arr.Select(NewFieldUint(1, mod7))
	require.False(t, ok)
}

func TestEvalOpArithmetic(t *testing.T) {
	a := NewFieldUint(5, mod7)
	b := NewFieldUint(4, mod7)

	sum, err := EvalOp(Op{Kind: OpPfAdd}, []Value{a, b}, nil, mod7)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(2), sum.AsInt())

	prod, err := EvalOp(Op{Kind: OpPfMul}, []Value{a, b}, nil, mod7)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(6), prod.AsInt())

	neg, err := EvalOp(Op{Kind: OpPfNeg}, []Value{a}, nil, mod7)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(2), neg.AsInt())
}

func TestEvalOpIteSelectsThenOrElse(t *testing.T) {
	then := NewFieldUint(1, mod7)
	els := NewFieldUint(0, mod7)

	got, err := EvalOp(Op{Kind: OpIte}, []Value{NewBool(true), then, els}, nil, mod7)
	require.NoError(t, err)
	require.True(t, Equal(got, then))

	got, err = EvalOp(Op{Kind: OpIte}, []Value{NewBool(false), then, els}, nil, mod7)
	require.NoError(t, err)
	require.True(t, Equal(got, els))
}

func TestEvalOpVarLookup(t *testing.T) {
	vars := map[string]Value{"x": NewFieldUint(3, mod7)}
	v, err := EvalOp(Op{Kind: OpVar, VarName: "x"}, nil, vars, mod7)
	require.NoError(t, err)
	require.True(t, Equal(v, NewFieldUint(3, mod7)))

	_, err = EvalOp(Op{Kind: OpVar, VarName: "missing"}, nil, vars, mod7)
	require.ErrorIs(t, err, ErrEvalDomain)
}

func TestEvalOpTupleProjectionAndUpdate(t *testing.T) {
	tup := NewTuple(NewFieldUint(1, mod7), NewFieldUint(2, mod7))

	got, err := EvalOp(FieldProj(1), []Value{tup}, nil, mod7)
	require.NoError(t, err)
	require.True(t, Equal(got, NewFieldUint(2, mod7)))

	updated, err := EvalOp(Update(0), []Value{tup, NewFieldUint(9, mod7)}, nil, mod7)
	require.NoError(t, err)
	require.True(t, Equal(updated.TupleElems()[0], NewFieldUint(9, mod7)))
	require.True(t, Equal(updated.TupleElems()[1], NewFieldUint(2, mod7)))

	_, err = EvalOp(FieldProj(5), []Value{tup}, nil, mod7)
	require.ErrorIs(t, err, ErrEvalDomain)
}

func TestPostOrderSkipsAlreadyEmitted(t *testing.T) {
	leaf := NewTerm(ConstOp(NewFieldUint(1, mod7)), Field())
	root := NewTerm(Op{Kind: OpPfAdd}, Field(), leaf, leaf)

	var order []*Term
	PostOrder([]*Term{root}, nil, func(t *Term) { order = append(order, t) })
	require.Equal(t, []*Term{leaf, root}, order)

	skip := map[*Term]bool{leaf: true}
	order = nil
	PostOrder([]*Term{root}, skip, func(t *Term) { order = append(order, t) })
	require.Equal(t, []*Term{root}, order)
}
