package ram

// Operation is one node of the nested-loop tree a clause translates to.
type Operation interface {
	operationTag()
}

// Scan iterates every tuple of Relation, binding it at Level, for each
// invoking Inner. ProfileText, when non-empty, is the label a profiling
// evaluator reports the scan under.
type Scan struct {
	Relation    string
	Level       int
	Inner       Operation
	ProfileText string
}

// UnpackRecord destructures the record at Source into a tuple bound at
// Level with Arity columns.
type UnpackRecord struct {
	Inner  Operation
	Level  int
	Source Expression
	Arity  int
}

type AggregateFunction int

const (
	AggregateMin AggregateFunction = iota
	AggregateMax
	AggregateCount
	AggregateSum
)

// Aggregate computes Function over Expression for every tuple of Relation
// satisfying Condition, binding the result (and the satisfying tuple) at
// Level before invoking Inner.
type Aggregate struct {
	Inner      Operation
	Function   AggregateFunction
	Relation   string
	Expression Expression
	Condition  Condition
	Level      int
}

type Filter struct {
	Condition Condition
	Inner     Operation
}

// Project writes one tuple (Arguments) into Relation.
type Project struct {
	Relation  string
	Arguments []Expression
}

// Break exits the innermost enclosing loop once Condition holds, without
// otherwise altering control flow (used for the nullary-head early-out,
// §4.D phase 4 step 5).
type Break struct {
	Condition Condition
	Inner     Operation
}

// SubroutineReturn is a provenance subroutine's leaf: it returns Values to
// the caller instead of projecting into a relation.
type SubroutineReturn struct {
	Values []Expression
}

func (*Scan) operationTag()             {}
func (*UnpackRecord) operationTag()     {}
func (*Aggregate) operationTag()        {}
func (*Filter) operationTag()           {}
func (*Project) operationTag()          {}
func (*Break) operationTag()            {}
func (*SubroutineReturn) operationTag() {}

func CloneOperation(o Operation) Operation {
	switch v := o.(type) {
	case nil:
		return nil
	case *Scan:
		return &Scan{Relation: v.Relation, Level: v.Level, Inner: CloneOperation(v.Inner), ProfileText: v.ProfileText}
	case *UnpackRecord:
		return &UnpackRecord{Inner: CloneOperation(v.Inner), Level: v.Level, Source: CloneExpression(v.Source), Arity: v.Arity}
	case *Aggregate:
		return &Aggregate{
			Inner:      CloneOperation(v.Inner),
			Function:   v.Function,
			Relation:   v.Relation,
			Expression: CloneExpression(v.Expression),
			Condition:  CloneCondition(v.Condition),
			Level:      v.Level,
		}
	case *Filter:
		return &Filter{Condition: CloneCondition(v.Condition), Inner: CloneOperation(v.Inner)}
	case *Project:
		return &Project{Relation: v.Relation, Arguments: cloneExpressions(v.Arguments)}
	case *Break:
		return &Break{Condition: CloneCondition(v.Condition), Inner: CloneOperation(v.Inner)}
	case *SubroutineReturn:
		return &SubroutineReturn{Values: cloneExpressions(v.Values)}
	default:
		panic("ram: CloneOperation: unrecognised operation variant")
	}
}

func OperationEqual(a, b Operation) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *Scan:
		bv, ok := b.(*Scan)
		return ok && av.Relation == bv.Relation && av.Level == bv.Level && av.ProfileText == bv.ProfileText && OperationEqual(av.Inner, bv.Inner)
	case *UnpackRecord:
		bv, ok := b.(*UnpackRecord)
		return ok && av.Level == bv.Level && av.Arity == bv.Arity && ExpressionEqual(av.Source, bv.Source) && OperationEqual(av.Inner, bv.Inner)
	case *Aggregate:
		bv, ok := b.(*Aggregate)
		return ok && av.Function == bv.Function && av.Relation == bv.Relation && av.Level == bv.Level &&
			ExpressionEqual(av.Expression, bv.Expression) && ConditionEqual(av.Condition, bv.Condition) && OperationEqual(av.Inner, bv.Inner)
	case *Filter:
		bv, ok := b.(*Filter)
		return ok && ConditionEqual(av.Condition, bv.Condition) && OperationEqual(av.Inner, bv.Inner)
	case *Project:
		bv, ok := b.(*Project)
		return ok && av.Relation == bv.Relation && expressionsEqual(av.Arguments, bv.Arguments)
	case *Break:
		bv, ok := b.(*Break)
		return ok && ConditionEqual(av.Condition, bv.Condition) && OperationEqual(av.Inner, bv.Inner)
	case *SubroutineReturn:
		bv, ok := b.(*SubroutineReturn)
		return ok && expressionsEqual(av.Values, bv.Values)
	default:
		panic("ram: OperationEqual: unrecognised operation variant")
	}
}
