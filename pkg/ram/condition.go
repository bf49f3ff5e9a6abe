package ram

type Condition interface {
	conditionTag()
}

type True struct{}

type ConstraintOp int

const (
	ConstraintEq ConstraintOp = iota
	ConstraintNe
	ConstraintLt
	ConstraintLe
	ConstraintGt
	ConstraintGe
)

type Constraint struct {
	Op  ConstraintOp
	LHS Expression
	RHS Expression
}

type Conjunction struct {
	LHS Condition
	RHS Condition
}

type Negation struct {
	Inner Condition
}

// ExistenceCheck asks whether Relation contains a tuple matching Values;
// an Undefined entry is a wildcard column.
type ExistenceCheck struct {
	Relation string
	Values   []Expression
}

// ProvenanceExistenceCheck is like ExistenceCheck but interpreted by a
// provenance-aware evaluator: the trailing auxiliary columns it carries are
// rule-number / height columns rather than ordinary data.
type ProvenanceExistenceCheck struct {
	Relation string
	Values   []Expression
}

type EmptinessCheck struct {
	Relation string
}

func (*True) conditionTag()                   {}
func (*Constraint) conditionTag()             {}
func (*Conjunction) conditionTag()            {}
func (*Negation) conditionTag()               {}
func (*ExistenceCheck) conditionTag()         {}
func (*ProvenanceExistenceCheck) conditionTag() {}
func (*EmptinessCheck) conditionTag()         {}

// Conj folds a list of conditions into a right-nested Conjunction, or True
// if the list is empty (4.D phase 4 step 4's "or true if empty").
func Conj(conds ...Condition) Condition {
	var nonNil []Condition
	for _, c := range conds {
		if c != nil {
			if _, isTrue := c.(*True); isTrue {
				continue
			}
			nonNil = append(nonNil, c)
		}
	}
	if len(nonNil) == 0 {
		return &True{}
	}
	out := nonNil[len(nonNil)-1]
	for i := len(nonNil) - 2; i >= 0; i-- {
		out = &Conjunction{LHS: nonNil[i], RHS: out}
	}
	return out
}

func CloneCondition(c Condition) Condition {
	switch v := c.(type) {
	case nil:
		return nil
	case *True:
		return &True{}
	case *Constraint:
		return &Constraint{Op: v.Op, LHS: CloneExpression(v.LHS), RHS: CloneExpression(v.RHS)}
	case *Conjunction:
		return &Conjunction{LHS: CloneCondition(v.LHS), RHS: CloneCondition(v.RHS)}
	case *Negation:
		return &Negation{Inner: CloneCondition(v.Inner)}
	case *ExistenceCheck:
		return &ExistenceCheck{Relation: v.Relation, Values: cloneExpressions(v.Values)}
	case *ProvenanceExistenceCheck:
		return &ProvenanceExistenceCheck{Relation: v.Relation, Values: cloneExpressions(v.Values)}
	case *EmptinessCheck:
		return &EmptinessCheck{Relation: v.Relation}
	default:
		panic("ram: CloneCondition: unrecognised condition variant")
	}
}

func ConditionEqual(a, b Condition) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *True:
		_, ok := b.(*True)
		return ok
	case *Constraint:
		bv, ok := b.(*Constraint)
		return ok && av.Op == bv.Op && ExpressionEqual(av.LHS, bv.LHS) && ExpressionEqual(av.RHS, bv.RHS)
	case *Conjunction:
		bv, ok := b.(*Conjunction)
		return ok && ConditionEqual(av.LHS, bv.LHS) && ConditionEqual(av.RHS, bv.RHS)
	case *Negation:
		bv, ok := b.(*Negation)
		return ok && ConditionEqual(av.Inner, bv.Inner)
	case *ExistenceCheck:
		bv, ok := b.(*ExistenceCheck)
		return ok && av.Relation == bv.Relation && expressionsEqual(av.Values, bv.Values)
	case *ProvenanceExistenceCheck:
		bv, ok := b.(*ProvenanceExistenceCheck)
		return ok && av.Relation == bv.Relation && expressionsEqual(av.Values, bv.Values)
	case *EmptinessCheck:
		bv, ok := b.(*EmptinessCheck)
		return ok && av.Relation == bv.Relation
	default:
		panic("ram: ConditionEqual: unrecognised condition variant")
	}
}
