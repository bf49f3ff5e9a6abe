package ast

// Clone returns a structurally equal but fully independent copy. The
// translator clones clauses for semi-naive versioning (4.E), plan-driven
// reordering (4.D phase 1), and provenance subroutine construction (4.F);
// none of those mutations may be visible through the original AST.
func (c *Clause) Clone() *Clause {
	if c == nil {
		return nil
	}
	cl := &Clause{
		Head:      c.Head.Clone(),
		Fixed:     c.Fixed,
		ClauseNum: c.ClauseNum,
	}
	if c.Plan != nil {
		orders := make(map[int][]int, len(c.Plan.Orders))
		for k, v := range c.Plan.Orders {
			cp := make([]int, len(v))
			copy(cp, v)
			orders[k] = cp
		}
		cl.Plan = &ExecutionPlan{Orders: orders}
	}
	if c.Body != nil {
		cl.Body = make([]Literal, len(c.Body))
		for i, lit := range c.Body {
			cl.Body[i] = cloneLiteral(lit)
		}
	}
	return cl
}

func (a *Atom) Clone() *Atom {
	if a == nil {
		return nil
	}
	out := &Atom{Relation: a.Relation}
	if a.Arguments != nil {
		out.Arguments = make([]Argument, len(a.Arguments))
		for i, arg := range a.Arguments {
			out.Arguments[i] = CloneArgument(arg)
		}
	}
	return out
}

func cloneLiteral(l Literal) Literal {
	switch v := l.(type) {
	case *Atom:
		return v.Clone()
	case *Negation:
		return &Negation{Atom: v.Atom.Clone()}
	case *ProvenanceNegation:
		return &ProvenanceNegation{Atom: v.Atom.Clone()}
	case *BinaryConstraint:
		return &BinaryConstraint{Op: v.Op, LHS: CloneArgument(v.LHS), RHS: CloneArgument(v.RHS)}
	default:
		panic("ast: cloneLiteral: unrecognised literal variant")
	}
}

// CloneArgument deep-copies any Argument variant. Exported because the
// translator clones individual arguments (e.g. when building subroutine
// equality constraints in 4.F) without cloning an enclosing atom.
func CloneArgument(a Argument) Argument {
	switch v := a.(type) {
	case nil:
		return nil
	case *Variable:
		return &Variable{Name: v.Name}
	case *UnnamedVariable:
		return &UnnamedVariable{}
	case *SignedConstant:
		return &SignedConstant{Value: v.Value}
	case *UnsignedConstant:
		return &UnsignedConstant{Value: v.Value}
	case *FloatConstant:
		return &FloatConstant{Value: v.Value}
	case *StringConstant:
		return &StringConstant{Value: v.Value, Index: v.Index}
	case *NilConstant:
		return &NilConstant{}
	case *RecordInit:
		args := make([]Argument, len(v.Arguments))
		for i, inner := range v.Arguments {
			args[i] = CloneArgument(inner)
		}
		return &RecordInit{Arguments: args}
	case *IntrinsicFunctor:
		args := make([]Argument, len(v.Arguments))
		for i, inner := range v.Arguments {
			args[i] = CloneArgument(inner)
		}
		return &IntrinsicFunctor{Op: v.Op, Arguments: args}
	case *UserDefinedFunctor:
		args := make([]Argument, len(v.Arguments))
		for i, inner := range v.Arguments {
			args[i] = CloneArgument(inner)
		}
		return &UserDefinedFunctor{Name: v.Name, Type: v.Type, Arguments: args}
	case *Counter:
		return &Counter{}
	case *Aggregator:
		out := &Aggregator{Op: v.Op, Target: CloneArgument(v.Target)}
		if v.Body != nil {
			out.Body = make([]Literal, len(v.Body))
			for i, lit := range v.Body {
				out.Body[i] = cloneLiteral(lit)
			}
		}
		return out
	case *SubroutineArgument:
		return &SubroutineArgument{Index: v.Index}
	default:
		panic("ast: CloneArgument: unrecognised argument variant")
	}
}
