// Package ram defines the owned output IR the translator builds: a strict
// ownership tree of relations, expressions, conditions, operations, and
// statements. Relations are referenced elsewhere in the tree by name only
// (never by pointer); the name -> relation table is built once by the
// program driver and is read-only thereafter.
package ram

import "github.com/ramlang/ramc/pkg/ast"

// Relation is one table in the RAM program: full arity including its
// trailing auxiliary columns, attribute names/type qualifiers for the
// user-visible prefix plus auxiliaries, and a representation tag carried
// through from the source AST relation.
type Relation struct {
	Name           string
	Arity          int
	AuxiliaryArity int
	AttributeNames []string
	AttributeTypes []string
	Representation ast.RelationRepresentation
}

func (r *Relation) Clone() *Relation {
	if r == nil {
		return nil
	}
	out := *r
	out.AttributeNames = append([]string(nil), r.AttributeNames...)
	out.AttributeTypes = append([]string(nil), r.AttributeTypes...)
	return &out
}

func (r *Relation) Equal(o *Relation) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Name != o.Name || r.Arity != o.Arity || r.AuxiliaryArity != o.AuxiliaryArity || r.Representation != o.Representation {
		return false
	}
	return stringsEqual(r.AttributeNames, o.AttributeNames) && stringsEqual(r.AttributeTypes, o.AttributeTypes)
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// UserArity is the relation's user-visible column count (total arity minus
// trailing auxiliary columns), per §3's invariant on auxiliary arity.
func (r *Relation) UserArity() int {
	return r.Arity - r.AuxiliaryArity
}
