package ram

import "github.com/ramlang/ramc/pkg/ast"

type Statement interface {
	statementTag()
}

// Query wraps a single top-level operation tree (a Project or a
// SubroutineReturn as its innermost operation).
type Query struct {
	Operation Operation
}

type Sequence struct {
	Statements []Statement
}

// Parallel is a static marker: its arms have no shared mutable state (each
// writes only its own @new_<r>, reads only @delta_<r'>, per §5) and may be
// executed concurrently by a downstream evaluator. The translator never
// itself runs goroutines over this list.
type Parallel struct {
	Statements []Statement
}

// Loop repeats Body until Exit holds, running Update once per iteration
// after Body (the merge/swap/clear step).
type Loop struct {
	Body   Statement
	Exit   Condition
	Update Statement
}

type Swap struct {
	A string
	B string
}

type Clear struct {
	Relation string
}

// Extend unions Src's equivalence classes into Dest; emitted only ahead of
// a merge into an EQREL-represented relation (§4.E preamble).
type Extend struct {
	Dest string
	Src  string
}

type Load struct {
	Relation  string
	Directive ast.IODirective
}

type Store struct {
	Relation  string
	Directive ast.IODirective
}

// LogTimer wraps Inner with a whole-program or whole-relation timing label,
// gated on the `profile` configuration flag.
type LogTimer struct {
	Label string
	Inner Statement
}

// LogRelationTimer is LogTimer scoped to one relation (so a profiling sink
// can attribute the time to it specifically).
type LogRelationTimer struct {
	Label    string
	Relation string
	Inner    Statement
}

// LogSize reports a relation's current cardinality without timing anything;
// emitted in place of LogRelationTimer when a non-recursive relation
// produced no rule statements at all (nothing to time, but its size is
// still worth recording).
type LogSize struct {
	Label    string
	Relation string
}

// DebugInfo carries the pretty-printed, unreordered source clause
// alongside Inner; used only by the pretty-printer, never consulted by
// translation logic.
type DebugInfo struct {
	Text  string
	Inner Statement
}

func (*Query) statementTag()            {}
func (*Sequence) statementTag()         {}
func (*Parallel) statementTag()         {}
func (*Loop) statementTag()             {}
func (*Swap) statementTag()             {}
func (*Clear) statementTag()            {}
func (*Extend) statementTag()           {}
func (*Load) statementTag()             {}
func (*Store) statementTag()            {}
func (*LogTimer) statementTag()         {}
func (*LogRelationTimer) statementTag() {}
func (*LogSize) statementTag()          {}
func (*DebugInfo) statementTag()        {}

// AppendStatement is the "merges into an existing Sequence, else wraps
// both into a new Sequence" idiom AstTranslator.cpp's appendStmt follows:
// used throughout the relation translator (4.E) and driver (4.G) to build
// up a growing statement list without nesting a Sequence inside a Sequence
// each time.
func AppendStatement(into Statement, next Statement) Statement {
	if next == nil {
		return into
	}
	if into == nil {
		return next
	}
	if seq, ok := into.(*Sequence); ok {
		seq.Statements = append(seq.Statements, next)
		return seq
	}
	return &Sequence{Statements: []Statement{into, next}}
}

func CloneStatement(s Statement) Statement {
	switch v := s.(type) {
	case nil:
		return nil
	case *Query:
		return &Query{Operation: CloneOperation(v.Operation)}
	case *Sequence:
		return &Sequence{Statements: cloneStatements(v.Statements)}
	case *Parallel:
		return &Parallel{Statements: cloneStatements(v.Statements)}
	case *Loop:
		return &Loop{Body: CloneStatement(v.Body), Exit: CloneCondition(v.Exit), Update: CloneStatement(v.Update)}
	case *Swap:
		return &Swap{A: v.A, B: v.B}
	case *Clear:
		return &Clear{Relation: v.Relation}
	case *Extend:
		return &Extend{Dest: v.Dest, Src: v.Src}
	case *Load:
		return &Load{Relation: v.Relation, Directive: cloneDirective(v.Directive)}
	case *Store:
		return &Store{Relation: v.Relation, Directive: cloneDirective(v.Directive)}
	case *LogTimer:
		return &LogTimer{Label: v.Label, Inner: CloneStatement(v.Inner)}
	case *LogRelationTimer:
		return &LogRelationTimer{Label: v.Label, Relation: v.Relation, Inner: CloneStatement(v.Inner)}
	case *LogSize:
		return &LogSize{Label: v.Label, Relation: v.Relation}
	case *DebugInfo:
		return &DebugInfo{Text: v.Text, Inner: CloneStatement(v.Inner)}
	default:
		panic("ram: CloneStatement: unrecognised statement variant")
	}
}

func cloneStatements(in []Statement) []Statement {
	if in == nil {
		return nil
	}
	out := make([]Statement, len(in))
	for i, s := range in {
		out[i] = CloneStatement(s)
	}
	return out
}

func cloneDirective(d ast.IODirective) ast.IODirective {
	out := ast.IODirective{IsPrintSize: d.IsPrintSize}
	if d.Params != nil {
		out.Params = make(map[string]string, len(d.Params))
		for k, v := range d.Params {
			out.Params[k] = v
		}
	}
	return out
}

func StatementEqual(a, b Statement) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *Query:
		bv, ok := b.(*Query)
		return ok && OperationEqual(av.Operation, bv.Operation)
	case *Sequence:
		bv, ok := b.(*Sequence)
		return ok && statementsEqual(av.Statements, bv.Statements)
	case *Parallel:
		bv, ok := b.(*Parallel)
		return ok && statementsEqual(av.Statements, bv.Statements)
	case *Loop:
		bv, ok := b.(*Loop)
		return ok && StatementEqual(av.Body, bv.Body) && ConditionEqual(av.Exit, bv.Exit) && StatementEqual(av.Update, bv.Update)
	case *Swap:
		bv, ok := b.(*Swap)
		return ok && *av == *bv
	case *Clear:
		bv, ok := b.(*Clear)
		return ok && *av == *bv
	case *Extend:
		bv, ok := b.(*Extend)
		return ok && *av == *bv
	case *Load:
		bv, ok := b.(*Load)
		return ok && av.Relation == bv.Relation && directiveEqual(av.Directive, bv.Directive)
	case *Store:
		bv, ok := b.(*Store)
		return ok && av.Relation == bv.Relation && directiveEqual(av.Directive, bv.Directive)
	case *LogTimer:
		bv, ok := b.(*LogTimer)
		return ok && av.Label == bv.Label && StatementEqual(av.Inner, bv.Inner)
	case *LogRelationTimer:
		bv, ok := b.(*LogRelationTimer)
		return ok && av.Label == bv.Label && av.Relation == bv.Relation && StatementEqual(av.Inner, bv.Inner)
	case *LogSize:
		bv, ok := b.(*LogSize)
		return ok && *av == *bv
	case *DebugInfo:
		bv, ok := b.(*DebugInfo)
		return ok && av.Text == bv.Text && StatementEqual(av.Inner, bv.Inner)
	default:
		panic("ram: StatementEqual: unrecognised statement variant")
	}
}

func statementsEqual(a, b []Statement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !StatementEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func directiveEqual(a, b ast.IODirective) bool {
	if a.IsPrintSize != b.IsPrintSize || len(a.Params) != len(b.Params) {
		return false
	}
	for k, v := range a.Params {
		if bv, ok := b.Params[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
