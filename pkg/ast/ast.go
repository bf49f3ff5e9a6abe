// Package ast defines the read-only input data model consumed by the
// translator: a typed, semantically-analysed Datalog program together with
// the analysis contracts (auxiliary arity, type environment, recursive
// clauses, SCC graph, topological order, relation schedule) the translator
// queries but never computes.
//
// Nothing in this package is mutated by the translator except through
// explicit Clone calls: the translator clones a clause locally (for
// semi-naive versioning, reordering, or provenance subroutine construction)
// and rewrites the clone, never the original.
package ast

// RelationRepresentation selects the physical representation a downstream
// evaluator should use for a relation. The translator treats it as an
// opaque tag that occasionally changes code shape (equivalence relations
// get an Extend step when merged; see internal/translate).
type RelationRepresentation int

const (
	RepDefault RelationRepresentation = iota
	RepBTree
	RepBrie
	RepEqRel
)

// Attribute is one declared column of a relation.
type Attribute struct {
	Name     string
	TypeName string
}

// Relation is a `.decl` declaration: name, arity, attributes, representation,
// and the load/store directives attached to it.
type Relation struct {
	Name           string
	Attributes     []Attribute
	Representation RelationRepresentation
	Loads          []IODirective
	Stores         []IODirective

	// Clauses is the ordered list of rules/facts whose head names this
	// relation. Populated by whatever builds the Program; the translator
	// only reads it.
	Clauses []*Clause
}

func (r *Relation) Arity() int { return len(r.Attributes) }

// IODirective is a single load/store annotation: an ordered map of
// directive keys to values, plus a discriminator for print-size stores.
type IODirective struct {
	Params      map[string]string
	IsPrintSize bool
}

// FunctorDeclaration describes a user-defined functor's name and declared
// return type qualifier (e.g. "number", "symbol", "record").
type FunctorDeclaration struct {
	Name string
	Type string
}

// Program is the whole translation unit's AST: type declarations are not
// modeled explicitly here (the core only needs the resolved TypeEnvironment
// analysis), relations carry their own clauses, and FunctorDecls lists the
// declared user-defined functors with their return types. The value
// translator does not read FunctorDecls; it uses the Type carried on each
// UserDefinedFunctor.
type Program struct {
	Relations    map[string]*Relation
	FunctorDecls map[string]*FunctorDeclaration
}

func (p *Program) Relation(name string) *Relation {
	return p.Relations[name]
}

// ExecutionPlan is a clause's optional user-supplied atom order: a mapping
// from version number to a 1-based permutation of body-atom positions.
type ExecutionPlan struct {
	Orders map[int][]int
}

// Clause is a head atom plus an ordered body of literals. ClauseNum
// identifies the clause among its relation's clauses (used to name
// provenance subroutines); Fixed marks a clause whose plan has already been
// applied. TranslateClause sets it on the reordered clone and clears that
// clone's Plan; the cleared Plan, not Fixed, keeps it from being reordered
// again.
type Clause struct {
	Head    *Atom
	Body    []Literal
	Plan    *ExecutionPlan
	Fixed   bool
	ClauseNum int
}

func (c *Clause) IsFact() bool { return len(c.Body) == 0 }
func (c *Clause) IsRule() bool { return len(c.Body) > 0 }

// Atom is a relation name applied to an ordered argument list. It is also a
// Literal: a bare atom appearing in a clause body is a positive-atom
// literal.
type Atom struct {
	Relation  string
	Arguments []Argument
}

func (a *Atom) Arity() int { return len(a.Arguments) }

func (a *Atom) literalTag() {}
