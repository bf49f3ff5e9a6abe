package ast

import "github.com/mitchellh/hashstructure/v2"

// Argument is the tagged-variant interface for an atom argument. The set of
// implementations below is closed; translate/valuetranslate.go exhaustively
// switches over it and panics on an unrecognised variant (that case can only
// be reached by a bug in this package, never by input data).
type Argument interface {
	argumentTag()
}

// Variable is a named, grounded reference. Two Variables denote the same
// binding iff their Name is equal; the value index is keyed on Name.
type Variable struct {
	Name string
}

// UnnamedVariable is `_`: never bound, never referenced again.
//
// UnnamedVariable, NilConstant and Counter carry a blank field so they are
// not zero-size: Go may give every zero-size allocation the same address,
// and each Clone must be a distinct object.
type UnnamedVariable struct{ _ byte }

type SignedConstant struct {
	Value int64
}

type UnsignedConstant struct {
	Value uint64
}

type FloatConstant struct {
	Value float64
}

type StringConstant struct {
	// Value is the source text; Index is the pre-resolved symbol-table
	// index a downstream evaluator uses instead of the string. The
	// translator only ever needs Index (see valuetranslate.go).
	Value string
	Index int64
}

type NilConstant struct{ _ byte }

// RecordInit is `[a1, ..., an]`: a nested tuple. It introduces its own
// value-index level (its "definition point") the way a nested atom would.
type RecordInit struct {
	Arguments []Argument
}

type IntrinsicFunctorOp int

const (
	IntrinsicAdd IntrinsicFunctorOp = iota
	IntrinsicSub
	IntrinsicMul
	IntrinsicDiv
	IntrinsicMod
	IntrinsicNeg
	IntrinsicBAnd
	IntrinsicBOr
	IntrinsicBXor
	IntrinsicLAnd
	IntrinsicLOr
	IntrinsicLNot
	IntrinsicMax
	IntrinsicMin
	IntrinsicCat
)

type IntrinsicFunctor struct {
	Op        IntrinsicFunctorOp
	Arguments []Argument
}

// UserDefinedFunctor calls a declared external function; Type is the
// declared return-type qualifier looked up from the program's functor
// declarations, carried on the argument so the value translator need not
// re-resolve it.
type UserDefinedFunctor struct {
	Name      string
	Type      string
	Arguments []Argument
}

// Counter is `autoinc()`.
type Counter struct{ _ byte }

type AggregatorOp int

const (
	AggregateMin AggregatorOp = iota
	AggregateMax
	AggregateCount
	AggregateSum
)

// Aggregator holds its own body literals: at most one atom plus any number
// of non-atom constraints (an aggregator body with more than one atom is a
// fatal assertion per §7, checked by the clause translator, not here).
type Aggregator struct {
	Op     AggregatorOp
	Target Argument // nil if the aggregator has no target expression (count)
	Body   []Literal
}

// StructuralHash is the "hash over (operator, target, body)" §9 Design Notes
// sanctions for deciding aggregator uniqueness in the value index.
func (a *Aggregator) StructuralHash() uint64 {
	h, err := hashstructure.Hash(struct {
		Op     AggregatorOp
		Target Argument
		Body   []Literal
	}{a.Op, a.Target, a.Body}, hashstructure.FormatV2, nil)
	if err != nil {
		// hashstructure only fails on unhashable inputs (channels, funcs),
		// none of which occur in the AST's closed argument/literal variants.
		panic(err)
	}
	return h
}

// SubroutineArgument references one positional argument of a provenance
// subroutine, by index.
type SubroutineArgument struct {
	Index int
}

func (*Variable) argumentTag()          {}
func (*UnnamedVariable) argumentTag()    {}
func (*SignedConstant) argumentTag()     {}
func (*UnsignedConstant) argumentTag()   {}
func (*FloatConstant) argumentTag()      {}
func (*StringConstant) argumentTag()     {}
func (*NilConstant) argumentTag()        {}
func (*RecordInit) argumentTag()         {}
func (*IntrinsicFunctor) argumentTag()   {}
func (*UserDefinedFunctor) argumentTag() {}
func (*Counter) argumentTag()            {}
func (*Aggregator) argumentTag()         {}
func (*SubroutineArgument) argumentTag() {}
