package ir

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// ValueKind tags the variant of a Value.
type ValueKind uint8

const (
	KindBool ValueKind = iota
	KindField
	KindBitVector
	KindInt
	KindTuple
	KindArray
)

// Value is a tagged, immutable IR value. Zero value is not meaningful; use
// the constructors below.
type Value struct {
	kind ValueKind

	b bool

	// Field and Int share the big.Int representation; Field values are kept
	// reduced modulo the field of the owning program.
	n *big.Int

	bvWidth int

	tuple []Value
	arr   *arrayValue
}

// arrayValue is the sparse representation backing an Array Value: a default
// for unset keys, plus an explicit key/value overlay kept sorted by the
// total Value order so iteration and encoding are deterministic.
type arrayValue struct {
	keySort    Sort
	elem       Sort
	def        Value
	hasDefault bool
	keys       []Value
	vals       []Value
	size       int
}

func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewField builds a field element, reducing x modulo modulus.
// modulus must be positive; x may be any sign or magnitude.
func NewField(x *big.Int, modulus *big.Int) Value {
	v := new(big.Int).Mod(x, modulus)
	return Value{kind: KindField, n: v}
}

// NewFieldUint is a convenience constructor for small constants.
func NewFieldUint(x uint64, modulus *big.Int) Value {
	return NewField(new(big.Int).SetUint64(x), modulus)
}

func NewBitVector(bits *big.Int, width int) Value {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(width))
	v := new(big.Int).Mod(bits, mask)
	return Value{kind: KindBitVector, n: v, bvWidth: width}
}

func NewInt(x *big.Int) Value {
	return Value{kind: KindInt, n: new(big.Int).Set(x)}
}

func NewTuple(elems ...Value) Value {
	return Value{kind: KindTuple, tuple: elems}
}

// NewArray builds an array value whose entries default to def until
// overridden by Store.
func NewArray(keySort, elemSort Sort, def Value, size int) Value {
	return Value{kind: KindArray, arr: &arrayValue{
		keySort: keySort, elem: elemSort, def: def, hasDefault: true, size: size,
	}}
}

// NewArrayNoDefault builds an array with no fallback value: Select on a
// missing key is then an EvalDomainError.
func NewArrayNoDefault(keySort, elemSort Sort, size int) Value {
	return Value{kind: KindArray, arr: &arrayValue{keySort: keySort, elem: elemSort, size: size}}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Sort() Sort {
	switch v.kind {
	case KindBool:
		return Bool()
	case KindField:
		return Field()
	case KindBitVector:
		return BitVector(v.bvWidth)
	case KindInt:
		return Int()
	case KindTuple:
		elems := make([]Sort, len(v.tuple))
		for i, e := range v.tuple {
			elems[i] = e.Sort()
		}
		return Tuple(elems...)
	case KindArray:
		return Array(v.arr.keySort, v.arr.elem, v.arr.size)
	default:
		panic("unreachable sort kind")
	}
}

func (v Value) AsBool() bool { return v.b }

func (v Value) AsInt() *big.Int { return new(big.Int).Set(v.n) }

func (v Value) BitVectorWidth() int { return v.bvWidth }

func (v Value) TupleElems() []Value { return v.tuple }

// Select looks up key in the array, falling back to the default when unset.
// ok is false when the key is absent and the array has no default, i.e. an
// EvalDomainError per §4.3.
func (v Value) Select(key Value) (result Value, ok bool) {
	idx := v.arr.indexOf(key)
	if idx < 0 {
		if !v.arr.hasDefault {
			return Value{}, false
		}
		return v.arr.def, true
	}
	return v.arr.vals[idx], true
}

// Store returns a new array value with key bound to val; v is not mutated.
func (v Value) Store(key, val Value) Value {
	na := &arrayValue{
		keySort:    v.arr.keySort,
		elem:       v.arr.elem,
		def:        v.arr.def,
		hasDefault: v.arr.hasDefault,
		size:       v.arr.size,
		keys:       append([]Value(nil), v.arr.keys...),
		vals:       append([]Value(nil), v.arr.vals...),
	}
	idx := na.indexOf(key)
	if idx >= 0 {
		na.vals[idx] = val
		return Value{kind: KindArray, arr: na}
	}
	pos := sort.Search(len(na.keys), func(i int) bool { return Compare(na.keys[i], key) >= 0 })
	na.keys = append(na.keys, Value{})
	copy(na.keys[pos+1:], na.keys[pos:])
	na.keys[pos] = key
	na.vals = append(na.vals, Value{})
	copy(na.vals[pos+1:], na.vals[pos:])
	na.vals[pos] = val
	return Value{kind: KindArray, arr: na}
}

func (a *arrayValue) indexOf(key Value) int {
	pos := sort.Search(len(a.keys), func(i int) bool { return Compare(a.keys[i], key) >= 0 })
	if pos < len(a.keys) && Compare(a.keys[pos], key) == 0 {
		return pos
	}
	return -1
}

// Compare gives the total order over Value required by Array keying:
// first by Kind, then by contents.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindBool:
		if a.b == b.b {
			return 0
		}
		if !a.b {
			return -1
		}
		return 1
	case KindField, KindInt, KindBitVector:
		if a.bvWidth != b.bvWidth {
			if a.bvWidth < b.bvWidth {
				return -1
			}
			return 1
		}
		return a.n.Cmp(b.n)
	case KindTuple:
		for i := 0; i < len(a.tuple) && i < len(b.tuple); i++ {
			if c := Compare(a.tuple[i], b.tuple[i]); c != 0 {
				return c
			}
		}
		return len(a.tuple) - len(b.tuple)
	case KindArray:
		for i := 0; i < len(a.arr.keys) && i < len(b.arr.keys); i++ {
			if c := Compare(a.arr.keys[i], b.arr.keys[i]); c != 0 {
				return c
			}
			if c := Compare(a.arr.vals[i], b.arr.vals[i]); c != 0 {
				return c
			}
		}
		return len(a.arr.keys) - len(b.arr.keys)
	default:
		return 0
	}
}

func Equal(a, b Value) bool { return Compare(a, b) == 0 }

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("Bool(%v)", v.b)
	case KindField:
		return fmt.Sprintf("Field(%s)", v.n.String())
	case KindBitVector:
		return fmt.Sprintf("Bv(%s, %d)", v.n.String(), v.bvWidth)
	case KindInt:
		return fmt.Sprintf("Int(%s)", v.n.String())
	case KindTuple:
		parts := make([]string, len(v.tuple))
		for i, e := range v.tuple {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindArray:
		return fmt.Sprintf("Array(size=%d, entries=%d)", v.arr.size, len(v.arr.keys))
	default:
		return "<value>"
	}
}
