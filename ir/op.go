package ir

// OpKind tags the operator carried by a term or step.
type OpKind uint8

const (
	OpVar OpKind = iota
	OpConst
	OpPfAdd
	OpPfMul
	OpPfNeg
	OpBvAdd
	OpBvMul
	OpBoolAnd
	OpBoolOr
	OpBoolNot
	OpEq
	OpBvUlt
	OpIte
	OpTuple
	OpField  // projects tuple element i
	OpUpdate // functional tuple update at index i
	OpStore
	OpSelect
	OpUbvToPf
	OpFill
)

// Op is a single DAG operator. Only the fields relevant to Kind are set, the
// same way Sort and Value carry a subset of their fields per variant.
type Op struct {
	Kind OpKind

	VarName string // OpVar
	VarSort Sort   // OpVar

	Const Value // OpConst

	Index int // OpField, OpUpdate

	FillKey  Sort // OpFill
	FillSize int  // OpFill
}

func Var(name string, sort Sort) Op  { return Op{Kind: OpVar, VarName: name, VarSort: sort} }
func ConstOp(v Value) Op             { return Op{Kind: OpConst, Const: v} }
func Fill(keySort Sort, size int) Op { return Op{Kind: OpFill, FillKey: keySort, FillSize: size} }
func FieldProj(i int) Op             { return Op{Kind: OpField, Index: i} }
func Update(i int) Op                { return Op{Kind: OpUpdate, Index: i} }

func (k OpKind) String() string {
	names := [...]string{
		"Var", "Const", "PfAdd", "PfMul", "PfNeg", "BvAdd", "BvMul",
		"BoolAnd", "BoolOr", "BoolNot", "Eq", "BvUlt", "Ite", "Tuple",
		"Field", "Update", "Store", "Select", "UbvToPf", "Fill",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}
