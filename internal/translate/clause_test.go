package translate

import (
	"testing"

	"github.com/ramlang/ramc/internal/config"
	"github.com/ramlang/ramc/pkg/ast"
	"github.com/ramlang/ramc/pkg/ram"
)

// fakeAuxArity is a trivial ast.AuxiliaryArity whose every relation has 0
// auxiliary columns unless listed otherwise.
type fakeAuxArity map[string]int

func (f fakeAuxArity) AuxiliaryArity(name string) int { return f[name] }

func testConfig() *config.Config {
	return &config.Config{}
}

// Testable property 4: a fact lowers to a single query projecting n
// constants into the head relation with no filters.
func TestTranslateClauseFact(t *testing.T) {
	clause := &ast.Clause{
		Head: &ast.Atom{Relation: "edge", Arguments: []ast.Argument{
			&ast.SignedConstant{Value: 1},
			&ast.SignedConstant{Value: 2},
		}},
	}

	stmt := TranslateClause(clause, clause, 0, testConfig(), fakeAuxArity{}, false)

	query, ok := stmt.(*ram.Query)
	if !ok {
		t.Fatalf("got %T, want *ram.Query", stmt)
	}
	proj, ok := query.Operation.(*ram.Project)
	if !ok {
		t.Fatalf("got %T, want *ram.Project", query.Operation)
	}
	if proj.Relation != "edge" {
		t.Fatalf("project relation = %q, want edge", proj.Relation)
	}
	want := []ram.Expression{&ram.SignedConstant{Value: 1}, &ram.SignedConstant{Value: 2}}
	if !ram.ExpressionEqual(&ram.PackRecord{Arguments: proj.Arguments}, &ram.PackRecord{Arguments: want}) {
		t.Fatalf("project arguments = %#v, want %#v", proj.Arguments, want)
	}
}

// `r(X,Y):-e(X,Y).` should scan e at level 0 and project (0,0),(0,1) into r.
func TestTranslateClauseSimpleRule(t *testing.T) {
	clause := &ast.Clause{
		Head: &ast.Atom{Relation: "r", Arguments: []ast.Argument{&ast.Variable{Name: "X"}, &ast.Variable{Name: "Y"}}},
		Body: []ast.Literal{
			&ast.Atom{Relation: "e", Arguments: []ast.Argument{&ast.Variable{Name: "X"}, &ast.Variable{Name: "Y"}}},
		},
	}

	stmt := TranslateClause(clause, clause, 0, testConfig(), fakeAuxArity{}, false)
	query, ok := stmt.(*ram.Query)
	if !ok {
		t.Fatalf("got %T, want *ram.Query", stmt)
	}

	scan, ok := query.Operation.(*ram.Scan)
	if !ok {
		t.Fatalf("got %T, want *ram.Scan", query.Operation)
	}
	if scan.Relation != "e" || scan.Level != 0 {
		t.Fatalf("scan = %+v, want relation e at level 0", scan)
	}

	filter, ok := scan.Inner.(*ram.Filter)
	if !ok {
		t.Fatalf("got %T, want *ram.Filter (non-empty guard)", scan.Inner)
	}
	neg, ok := filter.Condition.(*ram.Negation)
	if !ok {
		t.Fatalf("condition = %T, want *ram.Negation", filter.Condition)
	}
	if _, ok := neg.Inner.(*ram.EmptinessCheck); !ok {
		t.Fatalf("negation inner = %T, want *ram.EmptinessCheck", neg.Inner)
	}

	proj, ok := filter.Inner.(*ram.Project)
	if !ok {
		t.Fatalf("innermost = %T, want *ram.Project", filter.Inner)
	}
	want := []ram.Expression{&ram.TupleElement{Level: 0, Column: 0}, &ram.TupleElement{Level: 0, Column: 1}}
	if !ram.ExpressionEqual(&ram.PackRecord{Arguments: proj.Arguments}, &ram.PackRecord{Arguments: want}) {
		t.Fatalf("project arguments = %#v, want %#v", proj.Arguments, want)
	}
}

// Testable property 7: a nullary head emits, as its outermost layer, a
// filter requiring the head relation to be empty. `ready` is itself
// nullary here, so per §4.D phase 5 it contributes no scan (zero-arity
// atoms never get a scan or break, even under a nullary head) - only the
// non-emptiness guard and the outer/inner nullary-head stopping filters.
func TestTranslateClauseNullaryHeadRecomputeGuard(t *testing.T) {
	clause := &ast.Clause{
		Head: &ast.Atom{Relation: "stop"},
		Body: []ast.Literal{
			&ast.Atom{Relation: "ready"},
		},
	}

	stmt := TranslateClause(clause, clause, 0, testConfig(), fakeAuxArity{}, false)
	query := stmt.(*ram.Query)

	outer, ok := query.Operation.(*ram.Filter)
	if !ok {
		t.Fatalf("outermost = %T, want *ram.Filter", query.Operation)
	}
	if ec, ok := outer.Condition.(*ram.EmptinessCheck); !ok || ec.Relation != "stop" {
		t.Fatalf("outermost filter condition = %#v, want EmptinessCheck(stop)", outer.Condition)
	}

	// Beneath it: the ready-atom's non-emptiness guard, then the
	// innermost nullary-head stopping filter wrapping the project.
	mid, ok := outer.Inner.(*ram.Filter)
	if !ok {
		t.Fatalf("second layer = %T, want *ram.Filter (ready non-empty guard)", outer.Inner)
	}
	neg, ok := mid.Condition.(*ram.Negation)
	if !ok {
		t.Fatalf("second layer condition = %T, want *ram.Negation", mid.Condition)
	}
	if ec, ok := neg.Inner.(*ram.EmptinessCheck); !ok || ec.Relation != "ready" {
		t.Fatalf("second layer guards relation %#v, want ready", neg.Inner)
	}

	inner, ok := mid.Inner.(*ram.Filter)
	if !ok {
		t.Fatalf("third layer = %T, want *ram.Filter (innermost nullary-head guard)", mid.Inner)
	}
	if ec, ok := inner.Condition.(*ram.EmptinessCheck); !ok || ec.Relation != "stop" {
		t.Fatalf("third layer condition = %#v, want EmptinessCheck(stop)", inner.Condition)
	}
	if _, ok := inner.Inner.(*ram.Project); !ok {
		t.Fatalf("innermost = %T, want *ram.Project", inner.Inner)
	}
}

// Testable property 8: given a plan permuting body atoms, the translated
// IR is identical to translating the manually reordered clause.
func TestTranslateClauseExecutionPlanPermutation(t *testing.T) {
	unordered := &ast.Clause{
		Head: &ast.Atom{Relation: "r", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}},
		Body: []ast.Literal{
			&ast.Atom{Relation: "a", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}},
			&ast.Atom{Relation: "b", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}},
		},
		Plan: &ast.ExecutionPlan{Orders: map[int][]int{0: {2, 1}}},
	}

	manuallyReordered := &ast.Clause{
		Head: &ast.Atom{Relation: "r", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}},
		Body: []ast.Literal{
			&ast.Atom{Relation: "b", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}},
			&ast.Atom{Relation: "a", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}},
		},
	}

	got := TranslateClause(unordered, unordered, 0, testConfig(), fakeAuxArity{}, false)
	want := TranslateClause(manuallyReordered, manuallyReordered, 0, testConfig(), fakeAuxArity{}, false)

	if !ram.StatementEqual(got, want) {
		t.Fatalf("plan-driven reorder diverged from manual reorder:\ngot:  %#v\nwant: %#v", got, want)
	}
}

// Scenario S3: `r(sum y:s(y)):-t().` allocates a fresh level for the
// aggregator, with an Aggregate node carrying function SUM, the variable's
// tuple element as target, and a true condition (the aggregator body has
// no constraint literals, only the atom s(y)).
func TestTranslateClauseAggregatorSum(t *testing.T) {
	clause := &ast.Clause{
		Head: &ast.Atom{Relation: "r", Arguments: []ast.Argument{
			&ast.Aggregator{
				Op:     ast.AggregateSum,
				Target: &ast.Variable{Name: "y"},
				Body:   []ast.Literal{&ast.Atom{Relation: "s", Arguments: []ast.Argument{&ast.Variable{Name: "y"}}}},
			},
		}},
		Body: []ast.Literal{&ast.Atom{Relation: "t"}},
	}

	stmt := TranslateClause(clause, clause, 0, testConfig(), fakeAuxArity{}, false)
	query := stmt.(*ram.Query)

	var agg *ram.Aggregate
	var walk func(ram.Operation)
	walk = func(op ram.Operation) {
		switch v := op.(type) {
		case *ram.Aggregate:
			agg = v
		case *ram.Filter:
			walk(v.Inner)
		case *ram.Scan:
			walk(v.Inner)
		case *ram.Project:
		}
	}
	walk(query.Operation)

	if agg == nil {
		t.Fatal("expected an Aggregate node in the operation tree")
	}
	if agg.Function != ram.AggregateSum {
		t.Fatalf("aggregate function = %v, want AggregateSum", agg.Function)
	}
	if agg.Relation != "s" {
		t.Fatalf("aggregate relation = %q, want s", agg.Relation)
	}
	if _, isTrue := agg.Condition.(*ram.True); !isTrue {
		t.Fatalf("aggregate condition = %#v, want *ram.True", agg.Condition)
	}
	target, ok := agg.Expression.(*ram.TupleElement)
	if !ok || target.Level != agg.Level {
		t.Fatalf("aggregate target = %#v, want tuple element at the aggregate's own level", agg.Expression)
	}
}

// Two occurrences of the same variable at the outer atom force an equality
// filter between the first and second locations (value-index dedup, §4.D
// phase 4 step 1): `r(X):-e(X,X).`
func TestTranslateClauseRepeatedVariableEmitsEquality(t *testing.T) {
	clause := &ast.Clause{
		Head: &ast.Atom{Relation: "r", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}},
		Body: []ast.Literal{
			&ast.Atom{Relation: "e", Arguments: []ast.Argument{&ast.Variable{Name: "X"}, &ast.Variable{Name: "X"}}},
		},
	}

	stmt := TranslateClause(clause, clause, 0, testConfig(), fakeAuxArity{}, false)
	query := stmt.(*ram.Query)

	var sawEquality bool
	var walk func(ram.Operation)
	walk = func(op ram.Operation) {
		if f, ok := op.(*ram.Filter); ok {
			if c, ok := f.Condition.(*ram.Constraint); ok && c.Op == ram.ConstraintEq {
				lhs, lok := c.LHS.(*ram.TupleElement)
				rhs, rok := c.RHS.(*ram.TupleElement)
				if lok && rok && lhs.Level == 0 && lhs.Column == 0 && rhs.Level == 0 && rhs.Column == 1 {
					sawEquality = true
				}
			}
			walk(f.Inner)
		}
		if s, ok := op.(*ram.Scan); ok {
			walk(s.Inner)
		}
	}
	walk(query.Operation)

	if !sawEquality {
		t.Fatal("expected an equality filter binding (0,0) to (0,1) for the repeated variable X")
	}
}
