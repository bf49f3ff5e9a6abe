package ram

import (
	"fmt"
	"strings"
)

// Print renders a Program as an indented, Souffle-RAM-flavoured listing.
// cmd/ramc prints it; nothing in the translator parses it back.
func Print(p *Program) string {
	var b strings.Builder
	for _, r := range p.Relations {
		fmt.Fprintf(&b, "DECLARATION %s(%d, auxArity=%d)\n", r.Name, r.Arity, r.AuxiliaryArity)
	}
	b.WriteString("MAIN\n")
	printStatement(&b, p.Main, 1)
	for _, name := range sortedKeys(p.Subroutine) {
		fmt.Fprintf(&b, "SUBROUTINE %s\n", name)
		printStatement(&b, p.Subroutine[name], 1)
	}
	return b.String()
}

func sortedKeys(m map[string]Statement) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func printStatement(b *strings.Builder, s Statement, depth int) {
	if s == nil {
		return
	}
	switch v := s.(type) {
	case *Query:
		indent(b, depth)
		b.WriteString("QUERY\n")
		printOperation(b, v.Operation, depth+1)
	case *Sequence:
		for _, st := range v.Statements {
			printStatement(b, st, depth)
		}
	case *Parallel:
		indent(b, depth)
		b.WriteString("PARALLEL\n")
		for _, st := range v.Statements {
			printStatement(b, st, depth+1)
		}
	case *Loop:
		indent(b, depth)
		b.WriteString("LOOP\n")
		printStatement(b, v.Body, depth+1)
		indent(b, depth)
		fmt.Fprintf(b, "EXIT %s\n", printCondition(v.Exit))
		indent(b, depth)
		b.WriteString("UPDATE\n")
		printStatement(b, v.Update, depth+1)
	case *Swap:
		indent(b, depth)
		fmt.Fprintf(b, "SWAP (%s, %s)\n", v.A, v.B)
	case *Clear:
		indent(b, depth)
		fmt.Fprintf(b, "CLEAR %s\n", v.Relation)
	case *Extend:
		indent(b, depth)
		fmt.Fprintf(b, "EXTEND %s WITH %s\n", v.Dest, v.Src)
	case *Load:
		indent(b, depth)
		fmt.Fprintf(b, "LOAD %s\n", v.Relation)
	case *Store:
		indent(b, depth)
		fmt.Fprintf(b, "STORE %s\n", v.Relation)
	case *LogTimer:
		indent(b, depth)
		fmt.Fprintf(b, "START_TIMER %q\n", v.Label)
		printStatement(b, v.Inner, depth)
		indent(b, depth)
		b.WriteString("END_TIMER\n")
	case *LogRelationTimer:
		indent(b, depth)
		fmt.Fprintf(b, "START_TIMER %q ON %s\n", v.Label, v.Relation)
		printStatement(b, v.Inner, depth)
		indent(b, depth)
		b.WriteString("END_TIMER\n")
	case *LogSize:
		indent(b, depth)
		fmt.Fprintf(b, "LOGSIZE %s %q\n", v.Relation, v.Label)
	case *DebugInfo:
		indent(b, depth)
		fmt.Fprintf(b, "BEGIN_DEBUG %q\n", v.Text)
		printStatement(b, v.Inner, depth)
		indent(b, depth)
		b.WriteString("END_DEBUG\n")
	default:
		panic("ram: printStatement: unrecognised statement variant")
	}
}

func printOperation(b *strings.Builder, o Operation, depth int) {
	switch v := o.(type) {
	case *Scan:
		indent(b, depth)
		fmt.Fprintf(b, "FOR t%d IN %s", v.Level, v.Relation)
		if v.ProfileText != "" {
			fmt.Fprintf(b, " [%s]", v.ProfileText)
		}
		b.WriteString("\n")
		printOperation(b, v.Inner, depth+1)
	case *UnpackRecord:
		indent(b, depth)
		fmt.Fprintf(b, "UNPACK %s AS t%d(%d)\n", printExpression(v.Source), v.Level, v.Arity)
		printOperation(b, v.Inner, depth+1)
	case *Aggregate:
		indent(b, depth)
		fmt.Fprintf(b, "t%d.0 = %s %s IN %s WHERE %s\n", v.Level, aggregateFunctionName(v.Function), printExpression(v.Expression), v.Relation, printCondition(v.Condition))
		printOperation(b, v.Inner, depth+1)
	case *Filter:
		indent(b, depth)
		fmt.Fprintf(b, "IF %s\n", printCondition(v.Condition))
		printOperation(b, v.Inner, depth+1)
	case *Project:
		indent(b, depth)
		fmt.Fprintf(b, "PROJECT (%s) INTO %s\n", joinExpressions(v.Arguments), v.Relation)
	case *Break:
		indent(b, depth)
		fmt.Fprintf(b, "BREAK IF %s\n", printCondition(v.Condition))
		printOperation(b, v.Inner, depth+1)
	case *SubroutineReturn:
		indent(b, depth)
		fmt.Fprintf(b, "RETURN (%s)\n", joinExpressions(v.Values))
	default:
		panic("ram: printOperation: unrecognised operation variant")
	}
}

func aggregateFunctionName(f AggregateFunction) string {
	switch f {
	case AggregateMin:
		return "MIN"
	case AggregateMax:
		return "MAX"
	case AggregateCount:
		return "COUNT"
	case AggregateSum:
		return "SUM"
	default:
		panic("ram: aggregateFunctionName: unrecognised function")
	}
}

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = printExpression(e)
	}
	return strings.Join(parts, ", ")
}

func printExpression(e Expression) string {
	switch v := e.(type) {
	case nil:
		return "_"
	case *TupleElement:
		return fmt.Sprintf("t%d.%d", v.Level, v.Column)
	case *SignedConstant:
		return fmt.Sprintf("%d", v.Value)
	case *UnsignedConstant:
		return fmt.Sprintf("%du", v.Value)
	case *FloatConstant:
		return fmt.Sprintf("%g", v.Value)
	case *Undefined:
		return "_"
	case *AutoIncrement:
		return "autoinc()"
	case *IntrinsicOperator:
		return fmt.Sprintf("%s(%s)", intrinsicOpName(v.Op), joinExpressions(v.Arguments))
	case *UserDefinedOperator:
		return fmt.Sprintf("@%s(%s)", v.Name, joinExpressions(v.Arguments))
	case *PackRecord:
		return fmt.Sprintf("[%s]", joinExpressions(v.Arguments))
	case *SubroutineArgument:
		return fmt.Sprintf("arg(%d)", v.Index)
	default:
		panic("ram: printExpression: unrecognised expression variant")
	}
}

func intrinsicOpName(op IntrinsicOp) string {
	names := [...]string{"+", "-", "*", "/", "%", "-", "band", "bor", "bxor", "land", "lor", "lnot", "max", "min", "cat"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

func printCondition(c Condition) string {
	switch v := c.(type) {
	case nil:
		return "true"
	case *True:
		return "true"
	case *Constraint:
		return fmt.Sprintf("%s %s %s", printExpression(v.LHS), constraintOpName(v.Op), printExpression(v.RHS))
	case *Conjunction:
		return fmt.Sprintf("(%s AND %s)", printCondition(v.LHS), printCondition(v.RHS))
	case *Negation:
		return fmt.Sprintf("NOT %s", printCondition(v.Inner))
	case *ExistenceCheck:
		return fmt.Sprintf("(%s) IN %s", joinExpressions(v.Values), v.Relation)
	case *ProvenanceExistenceCheck:
		return fmt.Sprintf("(%s) IN %s [prov]", joinExpressions(v.Values), v.Relation)
	case *EmptinessCheck:
		return fmt.Sprintf("%s = ∅", v.Relation)
	default:
		panic("ram: printCondition: unrecognised condition variant")
	}
}

func constraintOpName(op ConstraintOp) string {
	switch op {
	case ConstraintEq:
		return "="
	case ConstraintNe:
		return "!="
	case ConstraintLt:
		return "<"
	case ConstraintLe:
		return "<="
	case ConstraintGt:
		return ">"
	case ConstraintGe:
		return ">="
	default:
		panic("ram: constraintOpName: unrecognised operator")
	}
}
