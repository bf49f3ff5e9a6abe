package translate

import (
	"fmt"
	"strings"

	"github.com/ramlang/ramc/internal/config"
	"github.com/ramlang/ramc/pkg/ast"
	"github.com/ramlang/ramc/pkg/ram"
)

// SubproofName and NegationSubproofName give the subroutine names a rule's
// two provenance subroutines are registered under (§4.F).
func SubproofName(relName string, clauseNum int) string {
	return fmt.Sprintf("%s_%d_subproof", relName, clauseNum)
}

func NegationSubproofName(relName string, clauseNum int) string {
	return fmt.Sprintf("%s_%d_negation_subproof", relName, clauseNum)
}

// MakeSubproofSubroutine implements §4.F's "Subproof": binds each user head
// argument to a subroutine argument, adds per-atom level constraints (the
// default scheme uses a strict less-than against a running index over body
// atoms only; subtreeHeights binds the atom's level column by equality
// against a running index that advances over every body literal — the
// open question in §9 is resolved in favour of the wider advance, since a
// per-literal proof step consumes one subtree-height argument whether or
// not the literal is an atom), then lowers the augmented clause with the
// provenance variant of the clause translator.
func MakeSubproofSubroutine(clause *ast.Clause, cfg *config.Config, auxArity ast.AuxiliaryArity) ram.Statement {
	aug := clause.Clone()
	nameUnnamedVariables(aug)
	originalBody := append([]ast.Literal(nil), aug.Body...)

	headArity := len(aug.Head.Arguments) - auxArity.AuxiliaryArity(aug.Head.Relation)
	for i, arg := range aug.Head.Arguments[:headArity] {
		aug.Body = append(aug.Body, &ast.BinaryConstraint{Op: ast.ConstraintEq, LHS: arg, RHS: &ast.SubroutineArgument{Index: i}})
	}

	runningIndex := 0
	for _, lit := range originalBody {
		atom, isAtom := lit.(*ast.Atom)
		if !isAtom || atom.Arity() == 0 {
			if cfg.Provenance == config.ProvenanceSubtreeHeights {
				runningIndex++
			}
			continue
		}
		levelCol := atom.Arguments[atom.Arity()-1]
		if cfg.Provenance == config.ProvenanceSubtreeHeights {
			aug.Body = append(aug.Body, &ast.BinaryConstraint{
				Op:  ast.ConstraintEq,
				LHS: levelCol,
				RHS: &ast.SubroutineArgument{Index: headArity + runningIndex},
			})
			runningIndex++
		} else {
			aug.Body = append(aug.Body, &ast.BinaryConstraint{
				Op:  ast.ConstraintLt,
				LHS: levelCol,
				RHS: &ast.SubroutineArgument{Index: headArity + runningIndex},
			})
			runningIndex++
		}
	}

	return TranslateClause(aug, aug, 0, cfg, auxArity, true)
}

// MakeNegationSubproofSubroutine implements §4.F's "Negation subproof":
// aggregators become opaque fresh variables, every remaining variable not
// carrying "@level_num" in its name becomes a subroutine argument indexed
// by first-occurrence order, @level_num variables become wildcards, and
// each body literal contributes a pair of queries reporting 1 (condition
// holds) or 0 (it does not).
func MakeNegationSubproofSubroutine(clause *ast.Clause, auxArity ast.AuxiliaryArity) ram.Statement {
	aug := clause.Clone()
	renameAggregators(aug)

	order := collectVariableOrder(aug)
	index := make(map[string]int, len(order))
	for i, name := range order {
		index[name] = i
	}
	substituteSubroutineArgs(aug, index)

	vi := newValueIndex()
	var result ram.Statement
	for _, lit := range aug.Body {
		result = ram.AppendStatement(result, negationSubproofLiteral(lit, vi, auxArity))
	}
	return result
}

func negationSubproofLiteral(lit ast.Literal, vi *valueIndex, auxArity ast.AuxiliaryArity) ram.Statement {
	var cond ram.Condition
	switch v := lit.(type) {
	case *ast.Atom:
		cond = atomExistenceCondition(v, vi, auxArity)
	case *ast.Negation:
		cond = atomExistenceCondition(v.Atom, vi, auxArity)
	case *ast.ProvenanceNegation:
		cond = atomExistenceCondition(v.Atom, vi, auxArity)
	case *ast.BinaryConstraint:
		cond = &ram.Constraint{Op: constraintOpFromAST(v.Op), LHS: translateValue(v.LHS, vi), RHS: translateValue(v.RHS, vi)}
	default:
		return nil
	}
	holds := &ram.Query{Operation: &ram.Filter{Condition: cond, Inner: &ram.SubroutineReturn{Values: []ram.Expression{&ram.SignedConstant{Value: 1}}}}}
	fails := &ram.Query{Operation: &ram.Filter{Condition: &ram.Negation{Inner: cond}, Inner: &ram.SubroutineReturn{Values: []ram.Expression{&ram.SignedConstant{Value: 0}}}}}
	return &ram.Sequence{Statements: []ram.Statement{holds, fails}}
}

func atomExistenceCondition(atom *ast.Atom, vi *valueIndex, auxArity ast.AuxiliaryArity) ram.Condition {
	aux := auxArity.AuxiliaryArity(atom.Relation)
	userArity := atom.Arity() - aux
	values := make([]ram.Expression, 0, atom.Arity())
	for i := 0; i < userArity; i++ {
		values = append(values, translateValue(atom.Arguments[i], vi))
	}
	for i := 0; i < aux; i++ {
		values = append(values, &ram.Undefined{})
	}
	if len(values) == 0 {
		return &ram.Negation{Inner: &ram.EmptinessCheck{Relation: atom.Relation}}
	}
	return &ram.ExistenceCheck{Relation: atom.Relation, Values: values}
}

// renameAggregators replaces every aggregator argument with a fresh opaque
// variable; aggregate values play no role in a negation subproof.
func renameAggregators(clause *ast.Clause) {
	counter := 0
	var rewriteArg func(ast.Argument) ast.Argument
	rewriteArg = func(a ast.Argument) ast.Argument {
		switch v := a.(type) {
		case *ast.Aggregator:
			name := fmt.Sprintf("_aggval%d", counter)
			counter++
			return &ast.Variable{Name: name}
		case *ast.RecordInit:
			for i := range v.Arguments {
				v.Arguments[i] = rewriteArg(v.Arguments[i])
			}
			return v
		case *ast.IntrinsicFunctor:
			for i := range v.Arguments {
				v.Arguments[i] = rewriteArg(v.Arguments[i])
			}
			return v
		case *ast.UserDefinedFunctor:
			for i := range v.Arguments {
				v.Arguments[i] = rewriteArg(v.Arguments[i])
			}
			return v
		default:
			return a
		}
	}
	walkClauseArgs(clause, rewriteArg)
}

// collectVariableOrder returns the unique variable names referenced in
// clause, in first-occurrence order, excluding any carrying "@level_num".
func collectVariableOrder(clause *ast.Clause) []string {
	var order []string
	seen := map[string]bool{}
	visit := func(a ast.Argument) ast.Argument {
		if v, ok := a.(*ast.Variable); ok && !strings.Contains(v.Name, "@level_num") {
			if !seen[v.Name] {
				seen[v.Name] = true
				order = append(order, v.Name)
			}
		}
		return a
	}
	walkClauseArgs(clause, visit)
	return order
}

// substituteSubroutineArgs replaces every named variable present in index
// with the corresponding subroutine argument, and every "@level_num"
// variable with a wildcard.
func substituteSubroutineArgs(clause *ast.Clause, index map[string]int) {
	var rewriteArg func(ast.Argument) ast.Argument
	rewriteArg = func(a ast.Argument) ast.Argument {
		switch v := a.(type) {
		case *ast.Variable:
			if strings.Contains(v.Name, "@level_num") {
				return &ast.UnnamedVariable{}
			}
			if i, ok := index[v.Name]; ok {
				return &ast.SubroutineArgument{Index: i}
			}
			return v
		case *ast.RecordInit:
			for i := range v.Arguments {
				v.Arguments[i] = rewriteArg(v.Arguments[i])
			}
			return v
		case *ast.IntrinsicFunctor:
			for i := range v.Arguments {
				v.Arguments[i] = rewriteArg(v.Arguments[i])
			}
			return v
		case *ast.UserDefinedFunctor:
			for i := range v.Arguments {
				v.Arguments[i] = rewriteArg(v.Arguments[i])
			}
			return v
		default:
			return a
		}
	}
	walkClauseArgs(clause, rewriteArg)
}

// walkClauseArgs applies rewrite to every top-level argument position in
// clause's head and body (head atom, body atoms/negations, both sides of
// binary constraints), replacing each in place.
func walkClauseArgs(clause *ast.Clause, rewrite func(ast.Argument) ast.Argument) {
	for i := range clause.Head.Arguments {
		clause.Head.Arguments[i] = rewrite(clause.Head.Arguments[i])
	}
	for _, lit := range clause.Body {
		switch v := lit.(type) {
		case *ast.Atom:
			for i := range v.Arguments {
				v.Arguments[i] = rewrite(v.Arguments[i])
			}
		case *ast.Negation:
			for i := range v.Atom.Arguments {
				v.Atom.Arguments[i] = rewrite(v.Atom.Arguments[i])
			}
		case *ast.ProvenanceNegation:
			for i := range v.Atom.Arguments {
				v.Atom.Arguments[i] = rewrite(v.Atom.Arguments[i])
			}
		case *ast.BinaryConstraint:
			v.LHS = rewrite(v.LHS)
			v.RHS = rewrite(v.RHS)
		}
	}
}
