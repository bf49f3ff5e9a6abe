package translate

import (
	"fmt"
	"sort"

	"github.com/ramlang/ramc/internal/config"
	"github.com/ramlang/ramc/pkg/ast"
	"github.com/ramlang/ramc/pkg/ram"
)

// opNestEntry is one entry of the clause translator's nesting stack: either
// the atom or the record initialiser that introduced the level, never
// both (§4.D phase 3).
type opNestEntry struct {
	atom   *ast.Atom
	record *ast.RecordInit
}

// clauseBuilder accumulates the per-clause state §4.A-§4.D describe while
// walking one clause: the value index, the nesting stack, and the ordered
// list of unique aggregators discovered.
type clauseBuilder struct {
	cfg         *config.Config
	auxArity    ast.AuxiliaryArity
	vi          *valueIndex
	opNesting   []opNestEntry
	aggregators []*ast.Aggregator
	level       int
}

func newClauseBuilder(cfg *config.Config, auxArity ast.AuxiliaryArity) *clauseBuilder {
	return &clauseBuilder{cfg: cfg, auxArity: auxArity, vi: newValueIndex()}
}

// TranslateClause implements §4.D end to end for one rule or fact,
// producing the ram.Statement for a single version. provenanceVariant
// selects the provenance-subroutine form of createOperation and omits the
// outer nullary-head stopping filter (§4.D "Provenance variant"); the
// subproof builder in provenance.go uses it.
func TranslateClause(clause, originalClause *ast.Clause, version int, cfg *config.Config, auxArity ast.AuxiliaryArity, provenanceVariant bool) ram.Statement {
	// Phase 1 - reordering.
	if clause.Plan != nil {
		if perm, ok := clause.Plan.Orders[version]; ok {
			reordered := clause.Clone()
			reordered.Body = reorderBody(clause.Body, perm)
			reordered.Plan = nil
			reordered.Fixed = true
			return TranslateClause(reordered, originalClause, version, cfg, auxArity, provenanceVariant)
		}
	}

	// Phase 2 - facts.
	if clause.IsFact() {
		vi := newValueIndex()
		values := translateValues(clause.Head.Arguments, vi)
		return &ram.Query{Operation: &ram.Project{Relation: clause.Head.Relation, Arguments: values}}
	}

	// Phase 3 - rules: build the value index.
	cb := newClauseBuilder(cfg, auxArity)
	cb.createValueIndex(clause)

	// Phase 4 - operation assembly, innermost first.
	var op ram.Operation
	if provenanceVariant {
		op = cb.createOperationProvenance(clause)
	} else {
		op = cb.createOperation(clause)
	}

	op = cb.wrapVariableEquality(op)
	op = cb.wrapBodyConditions(clause, op)
	op = cb.wrapAggregatorColumnEqualities(op)
	op = cb.wrapAggregatorLayers(op)
	op = cb.wrapScanUnpackLayers(clause, originalClause, version, op)

	var cond ram.Condition
	if !provenanceVariant && originalClause.Head.Arity() == 0 {
		cond = &ram.EmptinessCheck{Relation: originalClause.Head.Relation}
	}
	if cond != nil {
		op = &ram.Filter{Condition: cond, Inner: op}
	}
	return &ram.Query{Operation: op}
}

// reorderBody applies a clause's execution-plan permutation to the body's
// atoms: perm[i] is the 1-based position, counted among the atoms only, of
// the atom that should occupy the i-th atom slot. Non-atom literals keep
// their places.
func reorderBody(body []ast.Literal, perm []int) []ast.Literal {
	var atomPos []int
	for i, lit := range body {
		if _, ok := lit.(*ast.Atom); ok {
			atomPos = append(atomPos, i)
		}
	}
	out := append([]ast.Literal(nil), body...)
	for i, p := range perm {
		out[atomPos[i]] = body[atomPos[p-1]]
	}
	return out
}

// --- value-index construction (§4.D phase 3) ---

func (cb *clauseBuilder) createValueIndex(clause *ast.Clause) {
	for _, lit := range clause.Body {
		atom, ok := lit.(*ast.Atom)
		if !ok {
			continue
		}
		lvl := cb.level
		cb.level++
		cb.opNesting = append(cb.opNesting, opNestEntry{atom: atom})
		cb.indexArgs(atom.Arguments, lvl, atom.Relation)
	}
	cb.collectAggregators(clause)
}

func (cb *clauseBuilder) indexArgs(args []ast.Argument, level int, relation string) {
	for pos, arg := range args {
		switch v := arg.(type) {
		case *ast.Variable:
			cb.vi.addVarReference(v.Name, level, pos, relation)
		case *ast.RecordInit:
			recLevel := cb.level
			cb.level++
			cb.opNesting = append(cb.opNesting, opNestEntry{record: v})
			cb.vi.setRecordDefinition(v, Location{Level: level, Column: pos})
			cb.indexArgs(v.Arguments, recLevel, relation)
		}
	}
}

func (cb *clauseBuilder) collectAggregators(clause *ast.Clause) {
	for _, arg := range clause.Head.Arguments {
		cb.visitArgForAggregators(arg)
	}
	for _, lit := range clause.Body {
		cb.visitLiteralForAggregators(lit)
	}
}

func (cb *clauseBuilder) visitLiteralForAggregators(lit ast.Literal) {
	switch v := lit.(type) {
	case *ast.Atom:
		for _, a := range v.Arguments {
			cb.visitArgForAggregators(a)
		}
	case *ast.Negation:
		for _, a := range v.Atom.Arguments {
			cb.visitArgForAggregators(a)
		}
	case *ast.ProvenanceNegation:
		for _, a := range v.Atom.Arguments {
			cb.visitArgForAggregators(a)
		}
	case *ast.BinaryConstraint:
		cb.visitArgForAggregators(v.LHS)
		cb.visitArgForAggregators(v.RHS)
	}
}

func (cb *clauseBuilder) visitArgForAggregators(arg ast.Argument) {
	switch v := arg.(type) {
	case *ast.RecordInit:
		for _, a := range v.Arguments {
			cb.visitArgForAggregators(a)
		}
	case *ast.IntrinsicFunctor:
		for _, a := range v.Arguments {
			cb.visitArgForAggregators(a)
		}
	case *ast.UserDefinedFunctor:
		for _, a := range v.Arguments {
			cb.visitArgForAggregators(a)
		}
	case *ast.Aggregator:
		if v.Target != nil {
			cb.visitArgForAggregators(v.Target)
		}
		for _, lit := range v.Body {
			cb.visitLiteralForAggregators(lit)
		}
		cb.registerAggregator(v)
	}
}

func (cb *clauseBuilder) registerAggregator(agg *ast.Aggregator) {
	loc, isNew := cb.vi.resolveAggregator(agg, func() Location {
		l := Location{Level: cb.level, Column: 0}
		cb.level++
		return l
	})
	if !isNew {
		return
	}
	cb.aggregators = append(cb.aggregators, agg)
	if inner := aggregatorInnerAtom(agg); inner != nil {
		for pos, a := range inner.Arguments {
			if v, ok := a.(*ast.Variable); ok {
				cb.vi.addVarReference(v.Name, loc.Level, pos, inner.Relation)
			}
		}
	}
}

// aggregatorInnerAtom returns the aggregator's single body atom, or nil if
// it has none; more than one atom is a fatal assertion (§7, §9 "Aggregator
// bodies with more than one atom are rejected").
func aggregatorInnerAtom(agg *ast.Aggregator) *ast.Atom {
	var found *ast.Atom
	for _, lit := range agg.Body {
		if atom, ok := lit.(*ast.Atom); ok {
			if found != nil {
				panic("translate: unsupported complex aggregation body encountered")
			}
			found = atom
		}
	}
	return found
}

// --- createOperation (§4.D phase 4, innermost operation) ---

func (cb *clauseBuilder) createOperation(clause *ast.Clause) ram.Operation {
	head := clause.Head
	values := translateValues(head.Arguments, cb.vi)
	var op ram.Operation = &ram.Project{Relation: head.Relation, Arguments: values}

	if head.Arity() == 0 {
		op = &ram.Filter{Condition: &ram.EmptinessCheck{Relation: head.Relation}, Inner: op}
	}

	if cb.cfg.Provenance.Enabled() && !cb.cfg.InterpreterGuardsSuppressed() {
		aux := cb.auxArity.AuxiliaryArity(head.Relation)
		arity := head.Arity() - aux
		isVolatile := true
		guardValues := make([]ram.Expression, 0, head.Arity())
		for i := 0; i < arity; i++ {
			arg := head.Arguments[i]
			if containsCounter(arg) {
				isVolatile = false
			}
			guardValues = append(guardValues, translateValue(arg, cb.vi))
		}
		for i := 0; i < aux; i++ {
			guardValues = append(guardValues, &ram.Undefined{})
		}
		if isVolatile {
			op = &ram.Filter{
				Condition: &ram.Negation{Inner: &ram.ExistenceCheck{Relation: head.Relation, Values: guardValues}},
				Inner:     op,
			}
		}
	}
	return op
}

func containsCounter(arg ast.Argument) bool {
	switch v := arg.(type) {
	case *ast.Counter:
		return true
	case *ast.RecordInit:
		for _, a := range v.Arguments {
			if containsCounter(a) {
				return true
			}
		}
	case *ast.IntrinsicFunctor:
		for _, a := range v.Arguments {
			if containsCounter(a) {
				return true
			}
		}
	case *ast.UserDefinedFunctor:
		for _, a := range v.Arguments {
			if containsCounter(a) {
				return true
			}
		}
	}
	return false
}

// createOperationProvenance is §4.D's provenance variant: instead of
// projecting into the head, it returns every value the body carries.
func (cb *clauseBuilder) createOperationProvenance(clause *ast.Clause) ram.Operation {
	var values []ram.Expression
	for _, lit := range clause.Body {
		switch v := lit.(type) {
		case *ast.Atom:
			values = append(values, translateValues(v.Arguments, cb.vi)...)
		case *ast.Negation:
			values = append(values, translateValues(v.Atom.Arguments, cb.vi)...)
		case *ast.BinaryConstraint:
			values = append(values, translateValue(v.LHS, cb.vi), translateValue(v.RHS, cb.vi))
		case *ast.ProvenanceNegation:
			aux := cb.auxArity.AuxiliaryArity(v.Atom.Relation)
			userArity := v.Atom.Arity() - aux
			for i := 0; i < userArity; i++ {
				values = append(values, translateValue(v.Atom.Arguments[i], cb.vi))
			}
			for i := 0; i < aux; i++ {
				values = append(values, &ram.SignedConstant{Value: -1})
			}
		}
	}
	return &ram.SubroutineReturn{Values: values}
}

// --- layering (§4.D phase 4 steps 1-6) ---

func (cb *clauseBuilder) wrapVariableEquality(op ram.Operation) ram.Operation {
	names := make([]string, 0, len(cb.vi.varLocations))
	for name := range cb.vi.varLocations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		locs := cb.vi.varLocations[name]
		first := locs[0]
		for _, loc := range locs {
			if loc != first && !cb.vi.isAggregatorLevel(loc.Level) {
				op = &ram.Filter{
					Condition: &ram.Constraint{
						Op:  ram.ConstraintEq,
						LHS: &ram.TupleElement{Level: first.Level, Column: first.Column},
						RHS: &ram.TupleElement{Level: loc.Level, Column: loc.Column},
					},
					Inner: op,
				}
			}
		}
	}
	return op
}

func (cb *clauseBuilder) wrapBodyConditions(clause *ast.Clause, op ram.Operation) ram.Operation {
	for _, lit := range clause.Body {
		if cond := translateConstraint(lit, cb.vi, cb.auxArity, cb.cfg); cond != nil {
			op = &ram.Filter{Condition: cond, Inner: op}
		}
	}
	return op
}

func (cb *clauseBuilder) wrapAggregatorColumnEqualities(op ram.Operation) ram.Operation {
	curLevel := len(cb.opNesting) - 1
	for i := len(cb.opNesting) - 1; i >= 0; i-- {
		if entry := cb.opNesting[i]; entry.atom != nil {
			for pos, arg := range entry.atom.Arguments {
				if agg, ok := arg.(*ast.Aggregator); ok {
					loc := cb.vi.aggregatorLocation(agg)
					op = &ram.Filter{
						Condition: &ram.Constraint{
							Op:  ram.ConstraintEq,
							LHS: &ram.TupleElement{Level: curLevel, Column: pos},
							RHS: &ram.TupleElement{Level: loc.Level, Column: loc.Column},
						},
						Inner: op,
					}
				}
			}
		}
		curLevel--
	}
	return op
}

func (cb *clauseBuilder) wrapAggregatorLayers(op ram.Operation) ram.Operation {
	for i := len(cb.aggregators) - 1; i >= 0; i-- {
		agg := cb.aggregators[i]
		loc := cb.vi.aggregatorLocation(agg)
		level := loc.Level

		var conds []ram.Condition
		for _, lit := range agg.Body {
			if c := translateConstraint(lit, cb.vi, cb.auxArity, cb.cfg); c != nil {
				conds = append(conds, c)
			}
		}

		inner := aggregatorInnerAtom(agg)
		if inner != nil {
			for pos, arg := range inner.Arguments {
				if v, ok := arg.(*ast.Variable); ok {
					for _, l := range cb.vi.varLocations[v.Name] {
						if l.Level != level || l.Column != pos {
							conds = append(conds, &ram.Constraint{
								Op:  ram.ConstraintEq,
								LHS: &ram.TupleElement{Level: l.Level, Column: l.Column},
								RHS: &ram.TupleElement{Level: level, Column: pos},
							})
							break
						}
					}
					continue
				}
				val := translateValue(arg, cb.vi)
				if _, isUndef := val.(*ram.Undefined); !isUndef {
					conds = append(conds, &ram.Constraint{
						Op:  ram.ConstraintEq,
						LHS: &ram.TupleElement{Level: level, Column: pos},
						RHS: val,
					})
				}
			}
		}

		var expr ram.Expression = &ram.Undefined{}
		if agg.Target != nil {
			expr = translateValue(agg.Target, cb.vi)
		}
		relName := ""
		if inner != nil {
			relName = inner.Relation
		}
		op = &ram.Aggregate{
			Inner:      op,
			Function:   aggregateFunctionFromAST(agg.Op),
			Relation:   relName,
			Expression: expr,
			Condition:  ram.Conj(conds...),
			Level:      level,
		}
	}
	return op
}

func (cb *clauseBuilder) wrapScanUnpackLayers(clause, originalClause *ast.Clause, version int, op ram.Operation) ram.Operation {
	for i := len(cb.opNesting) - 1; i >= 0; i-- {
		entry := cb.opNesting[i]
		level := i
		switch {
		case entry.atom != nil:
			atom := entry.atom
			for pos, arg := range atom.Arguments {
				if isConstant(arg) {
					op = &ram.Filter{
						Condition: &ram.Constraint{Op: ram.ConstraintEq, LHS: &ram.TupleElement{Level: level, Column: pos}, RHS: translateValue(arg, cb.vi)},
						Inner:     op,
					}
				}
			}

			allUnnamed := true
			for _, arg := range atom.Arguments {
				if _, ok := arg.(*ast.UnnamedVariable); !ok {
					allUnnamed = false
					break
				}
			}

			op = &ram.Filter{Condition: &ram.Negation{Inner: &ram.EmptinessCheck{Relation: atom.Relation}}, Inner: op}

			if atom.Arity() != 0 && !allUnnamed {
				if clause.Head.Arity() == 0 {
					op = &ram.Break{Condition: &ram.Negation{Inner: &ram.EmptinessCheck{Relation: clause.Head.Relation}}, Inner: op}
				}
				profileText := ""
				if cb.cfg.Profile {
					profileText = fmt.Sprintf("@frequency-atom;%s;%d;%s;%d", originalClause.Head.Relation, version, atom.Relation, level)
				}
				op = &ram.Scan{Relation: atom.Relation, Level: level, Inner: op, ProfileText: profileText}
			}
		case entry.record != nil:
			rec := entry.record
			for pos, arg := range rec.Arguments {
				if isConstant(arg) || isFunctor(arg) {
					op = &ram.Filter{
						Condition: &ram.Constraint{Op: ram.ConstraintEq, LHS: &ram.TupleElement{Level: level, Column: pos}, RHS: translateValue(arg, cb.vi)},
						Inner:     op,
					}
				}
			}
			loc := cb.vi.recordDefinitionPoint(rec)
			op = &ram.UnpackRecord{
				Inner:  op,
				Level:  level,
				Source: &ram.TupleElement{Level: loc.Level, Column: loc.Column},
				Arity:  len(rec.Arguments),
			}
		default:
			panic("translate: unsupported AST node for creation of scan-level")
		}
	}
	return op
}

func isConstant(arg ast.Argument) bool {
	switch arg.(type) {
	case *ast.SignedConstant, *ast.UnsignedConstant, *ast.FloatConstant, *ast.StringConstant, *ast.NilConstant:
		return true
	default:
		return false
	}
}

func isFunctor(arg ast.Argument) bool {
	switch arg.(type) {
	case *ast.IntrinsicFunctor, *ast.UserDefinedFunctor:
		return true
	default:
		return false
	}
}
