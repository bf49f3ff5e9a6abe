package ram

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Testable property 2: cloning any RAM expression variant yields an
// equal-but-distinct instance, including a pack-record nested to depth
// ≥ 2 (spec.md §8). Grounded on original_source's
// ram_expression_equal_clone_test.cpp, which exercises the same intrinsic-
// operator clone/equal shape for the upstream C++ RAM IR.

func TestCloneExpressionEveryVariant(t *testing.T) {
	cases := []Expression{
		&TupleElement{Level: 1, Column: 2},
		&SignedConstant{Value: -3},
		&UnsignedConstant{Value: 3},
		&FloatConstant{Value: 1.5},
		&Undefined{},
		&AutoIncrement{},
		&IntrinsicOperator{Op: OpAdd, Arguments: []Expression{&SignedConstant{Value: 1}, &SignedConstant{Value: 2}}},
		&UserDefinedOperator{Name: "f", Type: "number", Arguments: []Expression{&TupleElement{Level: 0, Column: 0}}},
		&PackRecord{Arguments: []Expression{
			&SignedConstant{Value: 1},
			&PackRecord{Arguments: []Expression{&SignedConstant{Value: 2}, &Undefined{}}},
		}},
		&SubroutineArgument{Index: 4},
	}
	for _, c := range cases {
		clone := CloneExpression(c)
		if diff := cmp.Diff(c, clone); diff != "" {
			t.Fatalf("%T: clone mismatch (-orig +clone):\n%s", c, diff)
		}
		if !ExpressionEqual(c, clone) {
			t.Fatalf("%T: ExpressionEqual reported clone as unequal", c)
		}
	}
}

func TestIntrinsicOperatorCloneAndEquals(t *testing.T) {
	a := &IntrinsicOperator{Op: OpAdd, Arguments: []Expression{&SignedConstant{Value: 1}, &SignedConstant{Value: 2}}}
	b := &IntrinsicOperator{Op: OpAdd, Arguments: []Expression{&SignedConstant{Value: 1}, &SignedConstant{Value: 2}}}
	if !ExpressionEqual(a, b) {
		t.Fatal("structurally identical intrinsic operators compared unequal")
	}

	c := CloneExpression(a)
	if c == Expression(a) {
		t.Fatal("clone returned the same interface value")
	}
	if !ExpressionEqual(a, c) {
		t.Fatal("clone compared unequal to original")
	}

	d := &IntrinsicOperator{Op: OpNeg, Arguments: []Expression{&SignedConstant{Value: 1}}}
	e := &IntrinsicOperator{Op: OpNeg, Arguments: []Expression{&SignedConstant{Value: 1}}}
	if !ExpressionEqual(d, e) {
		t.Fatal("structurally identical NEG operators compared unequal")
	}
	if ExpressionEqual(a, d) {
		t.Fatal("differently-shaped operators compared equal")
	}
}

func TestPackRecordNestedDepthTwoClone(t *testing.T) {
	orig := &PackRecord{Arguments: []Expression{
		&PackRecord{Arguments: []Expression{
			&PackRecord{Arguments: []Expression{&SignedConstant{Value: 9}}},
			&TupleElement{Level: 2, Column: 0},
		}},
	}}
	clone := CloneExpression(orig).(*PackRecord)
	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Fatalf("clone mismatch (-orig +clone):\n%s", diff)
	}

	inner := orig.Arguments[0].(*PackRecord)
	innerClone := clone.Arguments[0].(*PackRecord)
	if inner == innerClone {
		t.Fatal("nested pack-record was not deep-copied")
	}
	innerClone.Arguments[1] = &TupleElement{Level: 9, Column: 9}
	if ExpressionEqual(orig, clone) {
		t.Fatal("mutating a nested clone did not change its structural equality")
	}
}
