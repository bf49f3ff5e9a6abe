package ram

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCloneConditionEveryVariant(t *testing.T) {
	cases := []Condition{
		&True{},
		&Constraint{Op: ConstraintLt, LHS: &SignedConstant{Value: 1}, RHS: &SignedConstant{Value: 2}},
		&Conjunction{LHS: &True{}, RHS: &Constraint{Op: ConstraintEq, LHS: &TupleElement{Level: 0}, RHS: &SignedConstant{Value: 1}}},
		&Negation{Inner: &EmptinessCheck{Relation: "r"}},
		&ExistenceCheck{Relation: "r", Values: []Expression{&TupleElement{Level: 0, Column: 0}, &Undefined{}}},
		&ProvenanceExistenceCheck{Relation: "r", Values: []Expression{&Undefined{}}},
		&EmptinessCheck{Relation: "r"},
	}
	for _, c := range cases {
		clone := CloneCondition(c)
		if diff := cmp.Diff(c, clone); diff != "" {
			t.Fatalf("%T: clone mismatch (-orig +clone):\n%s", c, diff)
		}
		if !ConditionEqual(c, clone) {
			t.Fatalf("%T: ConditionEqual reported clone as unequal", c)
		}
	}
}

func TestConjBuildsRightNestedConjunctionAndSkipsTrue(t *testing.T) {
	a := &EmptinessCheck{Relation: "a"}
	b := &EmptinessCheck{Relation: "b"}
	got := Conj(&True{}, a, b)

	want := &Conjunction{LHS: a, RHS: b}
	if !ConditionEqual(got, want) {
		t.Fatalf("Conj(True, a, b) = %#v, want %#v", got, want)
	}
}

func TestConjEmptyYieldsTrue(t *testing.T) {
	got := Conj()
	if _, ok := got.(*True); !ok {
		t.Fatalf("Conj() = %#v, want *True", got)
	}
	got2 := Conj(nil, &True{})
	if _, ok := got2.(*True); !ok {
		t.Fatalf("Conj(nil, True) = %#v, want *True", got2)
	}
}
