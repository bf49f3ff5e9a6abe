package ast

// Literal is the tagged-variant interface for a clause body element. Atom
// (a bare positive atom) also implements it, alongside the three variants
// below.
type Literal interface {
	literalTag()
}

// Negation is `!P(...)`.
type Negation struct {
	Atom *Atom
}

// ProvenanceNegation is like Negation but additionally carries rule-number
// and height auxiliary columns when provenance tracking is enabled; the
// constraint translator (4.C) is what interprets those columns, this node
// only marks the distinction from a plain Negation.
type ProvenanceNegation struct {
	Atom *Atom
}

type BinaryConstraintOp int

const (
	ConstraintEq BinaryConstraintOp = iota
	ConstraintNe
	ConstraintLt
	ConstraintLe
	ConstraintGt
	ConstraintGe
)

type BinaryConstraint struct {
	Op  BinaryConstraintOp
	LHS Argument
	RHS Argument
}

func (*Negation) literalTag()           {}
func (*ProvenanceNegation) literalTag() {}
func (*BinaryConstraint) literalTag()   {}
