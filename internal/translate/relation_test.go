package translate

import (
	"testing"

	"github.com/ramlang/ramc/pkg/ast"
	"github.com/ramlang/ramc/pkg/ram"
)

// fakeRecursiveClauses marks every clause present in its set as recursive.
type fakeRecursiveClauses map[*ast.Clause]bool

func (f fakeRecursiveClauses) IsRecursive(c *ast.Clause) bool { return f[c] }

// countStatementsOfShape returns how many statements anywhere in stmt
// satisfy match; with isQuery it counts semi-naive rule versions (each
// version translates to exactly one Query).
func countStatementsOfShape(stmt ram.Statement, match func(ram.Statement) bool) int {
	n := 0
	var walkStmt func(ram.Statement)
	walkStmt = func(s ram.Statement) {
		if s == nil {
			return
		}
		if match(s) {
			n++
		}
		switch v := s.(type) {
		case *ram.Sequence:
			for _, c := range v.Statements {
				walkStmt(c)
			}
		case *ram.Parallel:
			for _, c := range v.Statements {
				walkStmt(c)
			}
		case *ram.Loop:
			walkStmt(v.Body)
			walkStmt(v.Update)
		case *ram.LogTimer:
			walkStmt(v.Inner)
		case *ram.LogRelationTimer:
			walkStmt(v.Inner)
		case *ram.DebugInfo:
			walkStmt(v.Inner)
		}
	}
	walkStmt(stmt)
	return n
}

func isQuery(s ram.Statement) bool { _, ok := s.(*ram.Query); return ok }

// Scenario S1 / testable property 6: `r(X,Z):-r(X,Y),r(Y,Z).` has two body
// atoms both in the SCC {r}, so the recursive translation emits exactly
// two versions (one per SCC-internal body atom position).
func TestTranslateRecursiveRelationVersionCountTransitiveClosure(t *testing.T) {
	rClause := &ast.Clause{
		ClauseNum: 0,
		Head:      &ast.Atom{Relation: "r", Arguments: []ast.Argument{&ast.Variable{Name: "X"}, &ast.Variable{Name: "Z"}}},
		Body: []ast.Literal{
			&ast.Atom{Relation: "r", Arguments: []ast.Argument{&ast.Variable{Name: "X"}, &ast.Variable{Name: "Y"}}},
			&ast.Atom{Relation: "r", Arguments: []ast.Argument{&ast.Variable{Name: "Y"}, &ast.Variable{Name: "Z"}}},
		},
	}
	rRel := &ast.Relation{
		Name:       "r",
		Attributes: []ast.Attribute{{Name: "f", TypeName: "number"}, {Name: "t", TypeName: "number"}},
		Clauses:    []*ast.Clause{rClause},
	}
	program := &ast.Program{Relations: map[string]*ast.Relation{"r": rRel}}
	ramRel := &ram.Relation{Name: "r", Arity: 2}
	ramTable := ram.RelationTable{"r": ramRel}
	recur := fakeRecursiveClauses{rClause: true}

	stmt := TranslateRecursiveRelation([]string{"r"}, program, ramTable, testConfig(), fakeAuxArity{}, recur)

	// The loop's exit condition must check @new_r for emptiness.
	var loop *ram.Loop
	var find func(ram.Statement)
	find = func(s ram.Statement) {
		if l, ok := s.(*ram.Loop); ok {
			loop = l
			return
		}
		if seq, ok := s.(*ram.Sequence); ok {
			for _, c := range seq.Statements {
				find(c)
			}
		}
	}
	find(stmt)
	if loop == nil {
		t.Fatal("expected a Loop statement in the recursive translation")
	}

	versions := countStatementsOfShape(loop.Body, isQuery)
	if versions != 2 {
		t.Fatalf("got %d query versions in the loop body, want 2 (one per SCC-internal body atom)", versions)
	}

	ec, ok := loop.Exit.(*ram.EmptinessCheck)
	if !ok || ec.Relation != "@new_r" {
		t.Fatalf("loop exit = %#v, want EmptinessCheck(@new_r)", loop.Exit)
	}
}

// Scenario S2: mutually recursive `a(X):-b(X). b(X):-a(X).` in a single
// SCC contributes exactly one version per relation (each rule has exactly
// one SCC-internal body atom).
func TestTranslateRecursiveRelationVersionCountMutualRecursion(t *testing.T) {
	aClause := &ast.Clause{
		ClauseNum: 0,
		Head:      &ast.Atom{Relation: "a", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}},
		Body:      []ast.Literal{&ast.Atom{Relation: "b", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}}},
	}
	bClause := &ast.Clause{
		ClauseNum: 0,
		Head:      &ast.Atom{Relation: "b", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}},
		Body:      []ast.Literal{&ast.Atom{Relation: "a", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}}},
	}
	aRel := &ast.Relation{Name: "a", Attributes: []ast.Attribute{{Name: "x", TypeName: "number"}}, Clauses: []*ast.Clause{aClause}}
	bRel := &ast.Relation{Name: "b", Attributes: []ast.Attribute{{Name: "x", TypeName: "number"}}, Clauses: []*ast.Clause{bClause}}
	program := &ast.Program{Relations: map[string]*ast.Relation{"a": aRel, "b": bRel}}
	ramTable := ram.RelationTable{"a": &ram.Relation{Name: "a", Arity: 1}, "b": &ram.Relation{Name: "b", Arity: 1}}
	recur := fakeRecursiveClauses{aClause: true, bClause: true}

	stmt := TranslateRecursiveRelation([]string{"a", "b"}, program, ramTable, testConfig(), fakeAuxArity{}, recur)

	var loop *ram.Loop
	var find func(ram.Statement)
	find = func(s ram.Statement) {
		if l, ok := s.(*ram.Loop); ok {
			loop = l
			return
		}
		if seq, ok := s.(*ram.Sequence); ok {
			for _, c := range seq.Statements {
				find(c)
			}
		}
	}
	find(stmt)
	if loop == nil {
		t.Fatal("expected a Loop statement")
	}

	versions := countStatementsOfShape(loop.Body, isQuery)
	if versions != 2 {
		t.Fatalf("got %d query versions in the loop body, want 2 (one per relation, each with one SCC-internal atom)", versions)
	}

	conj, ok := loop.Exit.(*ram.Conjunction)
	if !ok {
		t.Fatalf("loop exit = %#v, want a Conjunction of both @new_a and @new_b emptiness checks", loop.Exit)
	}
	lhs, lok := conj.LHS.(*ram.EmptinessCheck)
	rhs, rok := conj.RHS.(*ram.EmptinessCheck)
	if !lok || !rok {
		t.Fatalf("conjunction operands = %#v, %#v, want EmptinessCheck", conj.LHS, conj.RHS)
	}
	got := map[string]bool{lhs.Relation: true, rhs.Relation: true}
	if !got["@new_a"] || !got["@new_b"] {
		t.Fatalf("exit condition relations = %v, want @new_a and @new_b", got)
	}
}

// genMerge's equivalence-relation branch prepends an Extend ahead of the
// scan-project merge.
func TestGenMergeEqrelPrependsExtend(t *testing.T) {
	stmt := genMerge("@delta_r", "r", 2, true)
	seq, ok := stmt.(*ram.Sequence)
	if !ok || len(seq.Statements) != 2 {
		t.Fatalf("genMerge(eqrel) = %#v, want a 2-element Sequence", stmt)
	}
	ext, ok := seq.Statements[0].(*ram.Extend)
	if !ok || ext.Dest != "@delta_r" || ext.Src != "r" {
		t.Fatalf("first statement = %#v, want Extend{@delta_r, r}", seq.Statements[0])
	}
	if _, ok := seq.Statements[1].(*ram.Query); !ok {
		t.Fatalf("second statement = %T, want *ram.Query", seq.Statements[1])
	}
}

func TestGenMergeNonEqrelIsJustAQuery(t *testing.T) {
	stmt := genMerge("@delta_r", "r", 2, false)
	if _, ok := stmt.(*ram.Query); !ok {
		t.Fatalf("genMerge(non-eqrel) = %T, want *ram.Query", stmt)
	}
}

func TestGenMergeNullaryUsesEmptinessFilter(t *testing.T) {
	stmt := genMerge("@delta_s", "s", 0, false)
	q, ok := stmt.(*ram.Query)
	if !ok {
		t.Fatalf("genMerge(arity 0) = %T, want *ram.Query", stmt)
	}
	f, ok := q.Operation.(*ram.Filter)
	if !ok {
		t.Fatalf("operation = %T, want *ram.Filter", q.Operation)
	}
	if _, ok := f.Condition.(*ram.Negation); !ok {
		t.Fatalf("condition = %T, want *ram.Negation", f.Condition)
	}
	if _, ok := f.Inner.(*ram.Project); !ok {
		t.Fatalf("inner = %T, want *ram.Project", f.Inner)
	}
}

func TestNameUnnamedVariablesGivesEachWildcardAUniqueName(t *testing.T) {
	clause := &ast.Clause{
		Head: &ast.Atom{Relation: "r", Arguments: []ast.Argument{&ast.UnnamedVariable{}}},
		Body: []ast.Literal{
			&ast.Atom{Relation: "e", Arguments: []ast.Argument{&ast.UnnamedVariable{}, &ast.UnnamedVariable{}}},
		},
	}
	nameUnnamedVariables(clause)

	v0, ok := clause.Head.Arguments[0].(*ast.Variable)
	if !ok {
		t.Fatalf("head argument = %T, want *ast.Variable", clause.Head.Arguments[0])
	}
	atom := clause.Body[0].(*ast.Atom)
	v1, ok1 := atom.Arguments[0].(*ast.Variable)
	v2, ok2 := atom.Arguments[1].(*ast.Variable)
	if !ok1 || !ok2 {
		t.Fatalf("body arguments = %#v, want *ast.Variable each", atom.Arguments)
	}
	names := map[string]bool{v0.Name: true, v1.Name: true, v2.Name: true}
	if len(names) != 3 {
		t.Fatalf("expected 3 distinct synthesised names, got %v", names)
	}
}
