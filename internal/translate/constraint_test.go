package translate

import (
	"testing"

	"github.com/ramlang/ramc/internal/config"
	"github.com/ramlang/ramc/pkg/ast"
	"github.com/ramlang/ramc/pkg/ram"
)

// Testable property 5: for `!P(a1,...,ak)` where P has auxiliary arity x,
// the emitted existence check has exactly k slots with trailing x
// undefined; if k - x == 0 the emission is an emptiness check instead.
func TestTranslateConstraintNegationArity(t *testing.T) {
	vi := newValueIndex()
	vi.addVarReference("X", 0, 0, "e")
	vi.addVarReference("Y", 0, 1, "e")

	neg := &ast.Negation{Atom: &ast.Atom{Relation: "p", Arguments: []ast.Argument{
		&ast.Variable{Name: "X"}, &ast.Variable{Name: "Y"},
	}}}

	cond := translateConstraint(neg, vi, fakeAuxArity{"p": 1}, &config.Config{})
	ncond, ok := cond.(*ram.Negation)
	if !ok {
		t.Fatalf("got %T, want *ram.Negation", cond)
	}
	ec, ok := ncond.Inner.(*ram.ExistenceCheck)
	if !ok {
		t.Fatalf("inner = %T, want *ram.ExistenceCheck", ncond.Inner)
	}
	if len(ec.Values) != 2 {
		t.Fatalf("existence check has %d values, want 2 (user arity 1 + aux arity 1)", len(ec.Values))
	}
	if _, ok := ec.Values[1].(*ram.Undefined); !ok {
		t.Fatalf("trailing auxiliary slot = %#v, want *ram.Undefined", ec.Values[1])
	}
	if te, ok := ec.Values[0].(*ram.TupleElement); !ok || te.Level != 0 || te.Column != 0 {
		t.Fatalf("user slot = %#v, want TupleElement(0,0)", ec.Values[0])
	}
}

func TestTranslateConstraintNegationNullaryEmitsEmptinessCheck(t *testing.T) {
	vi := newValueIndex()
	neg := &ast.Negation{Atom: &ast.Atom{Relation: "stop"}}

	cond := translateConstraint(neg, vi, fakeAuxArity{}, &config.Config{})
	ec, ok := cond.(*ram.EmptinessCheck)
	if !ok || ec.Relation != "stop" {
		t.Fatalf("got %#v, want EmptinessCheck(stop)", cond)
	}
}

func TestTranslateConstraintBinary(t *testing.T) {
	vi := newValueIndex()
	vi.addVarReference("X", 0, 0, "e")
	bc := &ast.BinaryConstraint{Op: ast.ConstraintLt, LHS: &ast.Variable{Name: "X"}, RHS: &ast.SignedConstant{Value: 5}}

	cond := translateConstraint(bc, vi, fakeAuxArity{}, &config.Config{})
	c, ok := cond.(*ram.Constraint)
	if !ok || c.Op != ram.ConstraintLt {
		t.Fatalf("got %#v, want Constraint{Lt}", cond)
	}
	if te, ok := c.LHS.(*ram.TupleElement); !ok || te.Level != 0 || te.Column != 0 {
		t.Fatalf("LHS = %#v, want TupleElement(0,0)", c.LHS)
	}
	if sc, ok := c.RHS.(*ram.SignedConstant); !ok || sc.Value != 5 {
		t.Fatalf("RHS = %#v, want SignedConstant(5)", c.RHS)
	}
}

func TestTranslateConstraintPositiveAtomYieldsNoCondition(t *testing.T) {
	vi := newValueIndex()
	atom := &ast.Atom{Relation: "e", Arguments: []ast.Argument{&ast.Variable{Name: "X"}}}
	vi.addVarReference("X", 0, 0, "e")

	cond := translateConstraint(atom, vi, fakeAuxArity{}, &config.Config{})
	if cond != nil {
		t.Fatalf("got %#v, want nil (positive atoms covered by scan emission)", cond)
	}
}
