package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ramlang/ramc/internal/translate"
	"github.com/ramlang/ramc/pkg/ast"
)

// fixtureFile is the thin JSON schema cmd/ramc loads in place of the
// out-of-scope Datalog parser and its six upstream analyses: a program
// plus the precomputed analysis results §4.G's driver consumes (SPEC_FULL
// "CLI" ambient-stack entry).
type fixtureFile struct {
	Relations    []fixtureRelation     `json:"relations"`
	FunctorDecls []fixtureFunctorDecl  `json:"functorDecls"`
	Analyses     fixtureAnalyses       `json:"analyses"`
}

type fixtureFunctorDecl struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type fixtureRelation struct {
	Name           string                `json:"name"`
	Attributes     []fixtureAttribute    `json:"attributes"`
	Representation string                `json:"representation"`
	Loads          []fixtureIODirective  `json:"loads"`
	Stores         []fixtureIODirective  `json:"stores"`
	Clauses        []fixtureClause       `json:"clauses"`
}

type fixtureAttribute struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type fixtureIODirective struct {
	Params      map[string]string `json:"params"`
	IsPrintSize bool              `json:"isPrintSize"`
}

type fixtureClause struct {
	ClauseNum int                `json:"clauseNum"`
	Head      fixtureAtom        `json:"head"`
	Body      []fixtureLiteral   `json:"body"`
	Plan      *fixturePlan       `json:"plan,omitempty"`
}

type fixturePlan struct {
	Orders map[string][]int `json:"orders"`
}

type fixtureAtom struct {
	Relation  string       `json:"relation"`
	Arguments []fixtureArg `json:"arguments"`
}

type fixtureLiteral struct {
	Kind string       `json:"kind"`
	Atom *fixtureAtom `json:"atom,omitempty"`
	Op   string       `json:"op,omitempty"`
	LHS  *fixtureArg  `json:"lhs,omitempty"`
	RHS  *fixtureArg  `json:"rhs,omitempty"`
}

type fixtureArg struct {
	Kind        string       `json:"kind"`
	Name        string       `json:"name,omitempty"`
	Signed      int64        `json:"signed,omitempty"`
	Unsigned    uint64       `json:"unsigned,omitempty"`
	Float       float64      `json:"float,omitempty"`
	String      string       `json:"string,omitempty"`
	StringIndex int64        `json:"stringIndex,omitempty"`
	Arguments   []fixtureArg `json:"arguments,omitempty"`
	Op          string       `json:"op,omitempty"`
	FunctorName string       `json:"functorName,omitempty"`
	FunctorType string       `json:"functorType,omitempty"`
	Target      *fixtureArg  `json:"target,omitempty"`
	Body        []fixtureLiteral `json:"body,omitempty"`
	Index       int          `json:"index,omitempty"`
}

type fixtureAnalyses struct {
	AuxiliaryArity   map[string]int          `json:"auxiliaryArity"`
	AttributeTypes   map[string][]string     `json:"attributeTypes"`
	RecursiveClauses []fixtureClauseRef      `json:"recursiveClauses"`
	SCCs             []fixtureSCC            `json:"sccs"`
	Order            []string                `json:"order"`
	Schedule         map[string]int          `json:"schedule"`
}

type fixtureClauseRef struct {
	Relation  string `json:"relation"`
	ClauseNum int    `json:"clauseNum"`
}

type fixtureSCC struct {
	Members   []string `json:"members"`
	Recursive bool     `json:"recursive"`
}

func loadFixture(r io.Reader) (*ast.Program, translate.Analyses, error) {
	var f fixtureFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, translate.Analyses{}, fmt.Errorf("decode fixture: %w", err)
	}

	program := &ast.Program{
		Relations:    map[string]*ast.Relation{},
		FunctorDecls: map[string]*ast.FunctorDeclaration{},
	}
	for _, fd := range f.FunctorDecls {
		program.FunctorDecls[fd.Name] = &ast.FunctorDeclaration{Name: fd.Name, Type: fd.Type}
	}

	clauseIndex := map[fixtureClauseRef]*ast.Clause{}
	for _, fr := range f.Relations {
		rel := &ast.Relation{
			Name:           fr.Name,
			Representation: decodeRepresentation(fr.Representation),
		}
		for _, a := range fr.Attributes {
			rel.Attributes = append(rel.Attributes, ast.Attribute{Name: a.Name, TypeName: a.Type})
		}
		for _, l := range fr.Loads {
			rel.Loads = append(rel.Loads, ast.IODirective{Params: l.Params, IsPrintSize: l.IsPrintSize})
		}
		for _, s := range fr.Stores {
			rel.Stores = append(rel.Stores, ast.IODirective{Params: s.Params, IsPrintSize: s.IsPrintSize})
		}
		for _, fc := range fr.Clauses {
			cl := decodeClause(fc)
			rel.Clauses = append(rel.Clauses, cl)
			clauseIndex[fixtureClauseRef{Relation: fr.Name, ClauseNum: fc.ClauseNum}] = cl
		}
		program.Relations[fr.Name] = rel
	}

	an := buildAnalyses(f.Analyses, clauseIndex)
	return program, an, nil
}

func decodeRepresentation(s string) ast.RelationRepresentation {
	switch s {
	case "btree":
		return ast.RepBTree
	case "brie":
		return ast.RepBrie
	case "eqrel":
		return ast.RepEqRel
	default:
		return ast.RepDefault
	}
}

func decodeClause(fc fixtureClause) *ast.Clause {
	cl := &ast.Clause{
		ClauseNum: fc.ClauseNum,
		Head:      decodeAtom(fc.Head),
	}
	for _, l := range fc.Body {
		cl.Body = append(cl.Body, decodeLiteral(l))
	}
	if fc.Plan != nil {
		orders := map[int][]int{}
		for k, v := range fc.Plan.Orders {
			var version int
			fmt.Sscanf(k, "%d", &version)
			orders[version] = v
		}
		cl.Plan = &ast.ExecutionPlan{Orders: orders}
	}
	return cl
}

func decodeAtom(fa fixtureAtom) *ast.Atom {
	atom := &ast.Atom{Relation: fa.Relation}
	for _, a := range fa.Arguments {
		atom.Arguments = append(atom.Arguments, decodeArg(a))
	}
	return atom
}

func decodeLiteral(fl fixtureLiteral) ast.Literal {
	switch fl.Kind {
	case "atom":
		return decodeAtom(*fl.Atom)
	case "negation":
		return &ast.Negation{Atom: decodeAtom(*fl.Atom)}
	case "provenanceNegation":
		return &ast.ProvenanceNegation{Atom: decodeAtom(*fl.Atom)}
	case "binaryConstraint":
		return &ast.BinaryConstraint{Op: decodeConstraintOp(fl.Op), LHS: decodeArg(*fl.LHS), RHS: decodeArg(*fl.RHS)}
	default:
		panic("fixture: unrecognised literal kind " + fl.Kind)
	}
}

func decodeArg(fa fixtureArg) ast.Argument {
	switch fa.Kind {
	case "var":
		return &ast.Variable{Name: fa.Name}
	case "unnamed":
		return &ast.UnnamedVariable{}
	case "signed":
		return &ast.SignedConstant{Value: fa.Signed}
	case "unsigned":
		return &ast.UnsignedConstant{Value: fa.Unsigned}
	case "float":
		return &ast.FloatConstant{Value: fa.Float}
	case "string":
		return &ast.StringConstant{Value: fa.String, Index: fa.StringIndex}
	case "nil":
		return &ast.NilConstant{}
	case "record":
		rec := &ast.RecordInit{}
		for _, a := range fa.Arguments {
			rec.Arguments = append(rec.Arguments, decodeArg(a))
		}
		return rec
	case "intrinsic":
		fn := &ast.IntrinsicFunctor{Op: decodeIntrinsicOp(fa.Op)}
		for _, a := range fa.Arguments {
			fn.Arguments = append(fn.Arguments, decodeArg(a))
		}
		return fn
	case "userFunctor":
		fn := &ast.UserDefinedFunctor{Name: fa.FunctorName, Type: fa.FunctorType}
		for _, a := range fa.Arguments {
			fn.Arguments = append(fn.Arguments, decodeArg(a))
		}
		return fn
	case "counter":
		return &ast.Counter{}
	case "aggregator":
		agg := &ast.Aggregator{Op: decodeAggregateOp(fa.Op)}
		if fa.Target != nil {
			agg.Target = decodeArg(*fa.Target)
		}
		for _, l := range fa.Body {
			agg.Body = append(agg.Body, decodeLiteral(l))
		}
		return agg
	case "subroutineArg":
		return &ast.SubroutineArgument{Index: fa.Index}
	default:
		panic("fixture: unrecognised argument kind " + fa.Kind)
	}
}

func decodeConstraintOp(s string) ast.BinaryConstraintOp {
	switch s {
	case "=":
		return ast.ConstraintEq
	case "!=":
		return ast.ConstraintNe
	case "<":
		return ast.ConstraintLt
	case "<=":
		return ast.ConstraintLe
	case ">":
		return ast.ConstraintGt
	case ">=":
		return ast.ConstraintGe
	default:
		panic("fixture: unrecognised constraint op " + s)
	}
}

func decodeIntrinsicOp(s string) ast.IntrinsicFunctorOp {
	switch s {
	case "+":
		return ast.IntrinsicAdd
	case "-":
		return ast.IntrinsicSub
	case "*":
		return ast.IntrinsicMul
	case "/":
		return ast.IntrinsicDiv
	case "%":
		return ast.IntrinsicMod
	case "neg":
		return ast.IntrinsicNeg
	case "band":
		return ast.IntrinsicBAnd
	case "bor":
		return ast.IntrinsicBOr
	case "bxor":
		return ast.IntrinsicBXor
	case "land":
		return ast.IntrinsicLAnd
	case "lor":
		return ast.IntrinsicLOr
	case "lnot":
		return ast.IntrinsicLNot
	case "max":
		return ast.IntrinsicMax
	case "min":
		return ast.IntrinsicMin
	case "cat":
		return ast.IntrinsicCat
	default:
		panic("fixture: unrecognised intrinsic op " + s)
	}
}

func decodeAggregateOp(s string) ast.AggregatorOp {
	switch s {
	case "min":
		return ast.AggregateMin
	case "max":
		return ast.AggregateMax
	case "count":
		return ast.AggregateCount
	case "sum":
		return ast.AggregateSum
	default:
		panic("fixture: unrecognised aggregator op " + s)
	}
}

// fixtureAuxiliaryArity, fixtureTypeEnvironment, fixtureRecursiveClauses,
// fixtureSCCGraph, fixtureTopologicalOrder and fixtureRelationSchedule are
// the thin concrete implementations of pkg/ast's analysis interfaces that
// cmd/ramc builds from the fixture file, standing in for the six
// upstream analyses spec.md §6 says the core only ever consumes by
// contract.
type fixtureAuxiliaryArity map[string]int

func (m fixtureAuxiliaryArity) AuxiliaryArity(name string) int {
	if len(name) >= len("@info_") && name[:len("@info_")] == "@info_" {
		return 0
	}
	if v, ok := m[name]; ok {
		return v
	}
	if stripped, ok := stripReservedPrefix(name); ok {
		return m.AuxiliaryArity(stripped)
	}
	return 0
}

func stripReservedPrefix(name string) (string, bool) {
	for _, prefix := range []string{"@delta_", "@new_"} {
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			return name[len(prefix):], true
		}
	}
	return "", false
}

type fixtureTypeEnvironment map[string][]string

func (m fixtureTypeEnvironment) AttributeType(relation string, column int) string {
	types := m[relation]
	if column < 0 || column >= len(types) {
		return ""
	}
	return types[column]
}

type fixtureRecursiveClauses map[*ast.Clause]bool

func (m fixtureRecursiveClauses) IsRecursive(clause *ast.Clause) bool {
	return m[clause]
}

type fixtureSCCGraph struct {
	members     map[string][]string
	recursive   map[string]bool
}

func (g fixtureSCCGraph) SCC(name string) []string {
	return g.members[name]
}

func (g fixtureSCCGraph) IsRecursiveSCC(name string) bool {
	return g.recursive[name]
}

type fixtureTopologicalOrder []string

func (o fixtureTopologicalOrder) Order() []string {
	return []string(o)
}

type fixtureRelationSchedule map[string]int

func (m fixtureRelationSchedule) ExpiresAt(name string) (int, bool) {
	v, ok := m[name]
	return v, ok
}

func buildAnalyses(fa fixtureAnalyses, clauseIndex map[fixtureClauseRef]*ast.Clause) translate.Analyses {
	recursive := fixtureRecursiveClauses{}
	for _, ref := range fa.RecursiveClauses {
		if cl, ok := clauseIndex[ref]; ok {
			recursive[cl] = true
		}
	}

	members := map[string][]string{}
	recursiveSCC := map[string]bool{}
	for _, scc := range fa.SCCs {
		sorted := append([]string(nil), scc.Members...)
		sort.Strings(sorted)
		for _, name := range scc.Members {
			members[name] = sorted
			recursiveSCC[name] = scc.Recursive
		}
	}

	return translate.Analyses{
		Types:     fixtureTypeEnvironment(fa.AttributeTypes),
		Recursive: recursive,
		SCC:       fixtureSCCGraph{members: members, recursive: recursiveSCC},
		Order:     fixtureTopologicalOrder(fa.Order),
		Schedule:  fixtureRelationSchedule(fa.Schedule),
		AuxArity:  fixtureAuxiliaryArity(fa.AuxiliaryArity),
	}
}
