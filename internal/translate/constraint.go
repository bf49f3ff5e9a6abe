package translate

import (
	"github.com/ramlang/ramc/internal/config"
	"github.com/ramlang/ramc/pkg/ast"
	"github.com/ramlang/ramc/pkg/ram"
)

// translateConstraint implements §4.C: a positive atom contributes no
// condition of its own (the scan/lookup layer in clause.go covers it); the
// remaining literal variants each lower to a RAM condition.
func translateConstraint(lit ast.Literal, vi *valueIndex, auxArity ast.AuxiliaryArity, cfg *config.Config) ram.Condition {
	switch v := lit.(type) {
	case *ast.Atom:
		return nil
	case *ast.BinaryConstraint:
		return &ram.Constraint{
			Op:  constraintOpFromAST(v.Op),
			LHS: translateValue(v.LHS, vi),
			RHS: translateValue(v.RHS, vi),
		}
	case *ast.Negation:
		aux := auxArity.AuxiliaryArity(v.Atom.Relation)
		userArity := v.Atom.Arity() - aux
		values := make([]ram.Expression, 0, v.Atom.Arity())
		for i := 0; i < userArity; i++ {
			values = append(values, translateValue(v.Atom.Arguments[i], vi))
		}
		for i := 0; i < aux; i++ {
			values = append(values, &ram.Undefined{})
		}
		if userArity > 0 {
			return &ram.Negation{Inner: &ram.ExistenceCheck{Relation: v.Atom.Relation, Values: values}}
		}
		return &ram.EmptinessCheck{Relation: v.Atom.Relation}
	case *ast.ProvenanceNegation:
		aux := auxArity.AuxiliaryArity(v.Atom.Relation)
		userArity := v.Atom.Arity() - aux
		values := make([]ram.Expression, 0, v.Atom.Arity())
		for i := 0; i < userArity; i++ {
			values = append(values, translateValue(v.Atom.Arguments[i], vi))
		}
		// The provenance columns are irrelevant to the existence check
		// itself; they are only appended when provenance tracking is on,
		// to let a provenance-aware evaluator compare rule levels.
		if cfg.Provenance.Enabled() {
			values = append(values, &ram.Undefined{})
			for h := 0; h < aux-1; h++ {
				values = append(values, translateValue(v.Atom.Arguments[userArity+h+1], vi))
			}
		}
		return &ram.Negation{Inner: &ram.ProvenanceExistenceCheck{Relation: v.Atom.Relation, Values: values}}
	default:
		panic("translate: translateConstraint: unrecognised literal variant")
	}
}
