package translate

import (
	"fmt"
	"strings"

	"github.com/ramlang/ramc/pkg/ast"
)

// renderClause renders clause back to a short Datalog-ish line for
// DebugInfo wrapping; it is diagnostic text only, never parsed back.
func renderClause(clause *ast.Clause) string {
	var b strings.Builder
	renderAtom(&b, clause.Head)
	if len(clause.Body) > 0 {
		b.WriteString(" :- ")
		for i, lit := range clause.Body {
			if i > 0 {
				b.WriteString(", ")
			}
			renderLiteral(&b, lit)
		}
	}
	b.WriteString(".")
	return b.String()
}

func renderLiteral(b *strings.Builder, lit ast.Literal) {
	switch v := lit.(type) {
	case *ast.Atom:
		renderAtom(b, v)
	case *ast.Negation:
		b.WriteString("!")
		renderAtom(b, v.Atom)
	case *ast.ProvenanceNegation:
		b.WriteString("prov!")
		renderAtom(b, v.Atom)
	case *ast.BinaryConstraint:
		renderArg(b, v.LHS)
		fmt.Fprintf(b, " %s ", constraintOpText(v.Op))
		renderArg(b, v.RHS)
	default:
		b.WriteString("?")
	}
}

func constraintOpText(op ast.BinaryConstraintOp) string {
	switch op {
	case ast.ConstraintEq:
		return "="
	case ast.ConstraintNe:
		return "!="
	case ast.ConstraintLt:
		return "<"
	case ast.ConstraintLe:
		return "<="
	case ast.ConstraintGt:
		return ">"
	case ast.ConstraintGe:
		return ">="
	default:
		return "?"
	}
}

func renderAtom(b *strings.Builder, atom *ast.Atom) {
	b.WriteString(atom.Relation)
	b.WriteString("(")
	for i, arg := range atom.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		renderArg(b, arg)
	}
	b.WriteString(")")
}

func renderArg(b *strings.Builder, arg ast.Argument) {
	switch v := arg.(type) {
	case *ast.Variable:
		b.WriteString(v.Name)
	case *ast.UnnamedVariable:
		b.WriteString("_")
	case *ast.SignedConstant:
		fmt.Fprintf(b, "%d", v.Value)
	case *ast.UnsignedConstant:
		fmt.Fprintf(b, "%du", v.Value)
	case *ast.FloatConstant:
		fmt.Fprintf(b, "%g", v.Value)
	case *ast.StringConstant:
		fmt.Fprintf(b, "%q", v.Value)
	case *ast.NilConstant:
		b.WriteString("nil")
	case *ast.RecordInit:
		b.WriteString("[")
		for i, a := range v.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			renderArg(b, a)
		}
		b.WriteString("]")
	case *ast.Counter:
		b.WriteString("$")
	case *ast.Aggregator:
		b.WriteString("<aggregate>")
	default:
		b.WriteString("<expr>")
	}
}
