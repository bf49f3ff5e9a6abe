package translate

import (
	"fmt"

	"github.com/ramlang/ramc/internal/config"
	"github.com/ramlang/ramc/pkg/ast"
	"github.com/ramlang/ramc/pkg/ram"
)

// TranslateNonRecursiveRelation implements §4.E's non-recursive branch: one
// query per non-recursive clause, each optionally profiled and always
// wrapped with debug info, sequenced in declaration order. When the
// relation contributed no non-recursive clauses at all, a LogSize
// statement is emitted in profiling mode instead of a timer wrapping
// nothing (SPEC_FULL supplemented feature 2).
func TranslateNonRecursiveRelation(rel *ast.Relation, cfg *config.Config, auxArity ast.AuxiliaryArity, recur ast.RecursiveClauses) ram.Statement {
	var res ram.Statement
	for _, clause := range rel.Clauses {
		if recur.IsRecursive(clause) {
			continue
		}
		stmt := TranslateClause(clause, clause, 0, cfg, auxArity, false)
		if cfg.Profile {
			stmt = &ram.LogRelationTimer{
				Label:    fmt.Sprintf("@t-nonrecursive-rule;%s;%d", rel.Name, clause.ClauseNum),
				Relation: rel.Name,
				Inner:    stmt,
			}
		}
		stmt = &ram.DebugInfo{Text: renderClause(clause), Inner: stmt}
		res = ram.AppendStatement(res, stmt)
	}
	if cfg.Profile {
		if res != nil {
			res = &ram.LogRelationTimer{Label: fmt.Sprintf("@t-nonrecursive-relation;%s", rel.Name), Relation: rel.Name, Inner: res}
		} else {
			res = &ram.LogSize{Relation: rel.Name, Label: fmt.Sprintf("@relation-nonrecursive;%s", rel.Name)}
		}
	}
	return res
}

// TranslateRecursiveRelation implements §4.E's recursive branch for one
// SCC: preamble (non-recursive seed + merge into delta), a parallel main
// loop emitting one version per (recursive clause, SCC-internal body atom
// position), the per-relation update block, and the postamble clears.
func TranslateRecursiveRelation(scc []string, program *ast.Program, ramTable ram.RelationTable, cfg *config.Config, auxArity ast.AuxiliaryArity, recur ast.RecursiveClauses) ram.Statement {
	sccSet := make(map[string]bool, len(scc))
	for _, n := range scc {
		sccSet[n] = true
	}

	var preamble, updateTable, postamble ram.Statement
	var parallelArms []ram.Statement

	for _, name := range scc {
		rel := program.Relation(name)
		ramRel := ramTable[name]
		isEqrel := ramRel.Representation == ast.RepEqRel

		preamble = ram.AppendStatement(preamble, TranslateNonRecursiveRelation(rel, cfg, auxArity, recur))
		preamble = ram.AppendStatement(preamble, genMerge("@delta_"+name, name, ramRel.Arity, isEqrel))

		updateRel := ram.Statement(&ram.Sequence{Statements: []ram.Statement{
			genMerge(name, "@new_"+name, ramRel.Arity, isEqrel),
			&ram.Swap{A: "@delta_" + name, B: "@new_" + name},
			&ram.Clear{Relation: "@new_" + name},
		}})
		if cfg.Profile {
			updateRel = &ram.LogRelationTimer{Label: fmt.Sprintf("@t-recursive-relation;%s", name), Relation: name, Inner: updateRel}
		}
		updateTable = ram.AppendStatement(updateTable, updateRel)

		postamble = ram.AppendStatement(postamble, &ram.Sequence{Statements: []ram.Statement{
			&ram.Clear{Relation: "@delta_" + name},
			&ram.Clear{Relation: "@new_" + name},
		}})
	}

	for _, name := range scc {
		rel := program.Relation(name)
		var relSeq ram.Statement
		version := 0
		for _, cl := range rel.Clauses {
			if !recur.IsRecursive(cl) {
				continue
			}
			for j, lit := range cl.Body {
				atom, ok := lit.(*ast.Atom)
				if !ok || !sccSet[atom.Relation] {
					continue
				}

				r1 := cl.Clone()
				r1.Head.Relation = "@new_" + name
				r1.Body[j].(*ast.Atom).Relation = "@delta_" + atom.Relation

				if cfg.Provenance.Enabled() {
					r1.Body = append(r1.Body, &ast.ProvenanceNegation{Atom: cl.Head.Clone()})
				} else if r1.Head.Arity() > 0 {
					r1.Body = append(r1.Body, &ast.Negation{Atom: cl.Head.Clone()})
				}
				nameUnnamedVariables(r1)

				for k := j + 1; k < len(cl.Body); k++ {
					atomK, ok := cl.Body[k].(*ast.Atom)
					if !ok || !sccSet[atomK.Relation] {
						continue
					}
					delta := r1.Body[k].(*ast.Atom).Clone()
					delta.Relation = "@delta_" + atomK.Relation
					r1.Body = append(r1.Body, &ast.Negation{Atom: delta})
				}

				stmt := TranslateClause(r1, cl, version, cfg, auxArity, false)
				if cfg.Profile {
					stmt = &ram.LogRelationTimer{Label: fmt.Sprintf("@t-recursive-rule;%s;%d", name, version), Relation: name, Inner: stmt}
				}
				stmt = &ram.DebugInfo{Text: renderClause(cl), Inner: stmt}
				relSeq = ram.AppendStatement(relSeq, stmt)
				version++
			}
		}
		if relSeq != nil {
			parallelArms = append(parallelArms, relSeq)
		}
	}

	var mainLoop ram.Statement
	if len(parallelArms) > 0 {
		exitConds := make([]ram.Condition, len(scc))
		for i, name := range scc {
			exitConds[i] = &ram.EmptinessCheck{Relation: "@new_" + name}
		}
		mainLoop = &ram.Loop{
			Body:   &ram.Parallel{Statements: parallelArms},
			Exit:   ram.Conj(exitConds...),
			Update: updateTable,
		}
	}

	result := ram.AppendStatement(preamble, mainLoop)
	result = ram.AppendStatement(result, postamble)
	return result
}

// genMerge scans src and projects every tuple into dest; for an
// equivalence-represented relation it first extends dest with src's
// equivalence classes (§4.E preamble, recursive-relation update block).
func genMerge(dest, src string, arity int, isEqrel bool) ram.Statement {
	var query ram.Statement
	if arity == 0 {
		query = &ram.Query{Operation: &ram.Filter{
			Condition: &ram.Negation{Inner: &ram.EmptinessCheck{Relation: src}},
			Inner:     &ram.Project{Relation: dest},
		}}
	} else {
		values := make([]ram.Expression, arity)
		for i := range values {
			values[i] = &ram.TupleElement{Level: 0, Column: i}
		}
		query = &ram.Query{Operation: &ram.Scan{Relation: src, Level: 0, Inner: &ram.Project{Relation: dest, Arguments: values}}}
	}
	if isEqrel {
		return &ram.Sequence{Statements: []ram.Statement{&ram.Extend{Dest: dest, Src: src}, query}}
	}
	return query
}

// nameUnnamedVariables replaces every wildcard in clause with a freshly
// named variable, so later clones (the SCC-internal negation atoms added
// alongside it) keep a stable, referenceable identity instead of two
// wildcards silently aliasing (§4.E step 5).
func nameUnnamedVariables(clause *ast.Clause) {
	counter := 0

	var rewriteArg func(ast.Argument) ast.Argument
	var rewriteLiteral func(ast.Literal)

	rewriteArg = func(a ast.Argument) ast.Argument {
		switch v := a.(type) {
		case *ast.UnnamedVariable:
			name := fmt.Sprintf("_unnamed_var%d", counter)
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
		case *ast.Aggregator:
			if v.Target != nil {
				v.Target = rewriteArg(v.Target)
			}
			for _, lit := range v.Body {
				rewriteLiteral(lit)
			}
			return v
		default:
			return a
		}
	}

	rewriteLiteral = func(lit ast.Literal) {
		switch v := lit.(type) {
		case *ast.Atom:
			for i := range v.Arguments {
				v.Arguments[i] = rewriteArg(v.Arguments[i])
			}
		case *ast.Negation:
			for i := range v.Atom.Arguments {
				v.Atom.Arguments[i] = rewriteArg(v.Atom.Arguments[i])
			}
		case *ast.ProvenanceNegation:
			for i := range v.Atom.Arguments {
				v.Atom.Arguments[i] = rewriteArg(v.Atom.Arguments[i])
			}
		case *ast.BinaryConstraint:
			v.LHS = rewriteArg(v.LHS)
			v.RHS = rewriteArg(v.RHS)
		}
	}

	for i := range clause.Head.Arguments {
		clause.Head.Arguments[i] = rewriteArg(clause.Head.Arguments[i])
	}
	for _, lit := range clause.Body {
		rewriteLiteral(lit)
	}
}
