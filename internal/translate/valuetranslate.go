package translate

import (
	"github.com/ramlang/ramc/pkg/ast"
	"github.com/ramlang/ramc/pkg/ram"
)

// translateValue implements §4.B: it resolves every argument variant to an
// owned ram.Expression through the value index, never mutating the AST.
func translateValue(arg ast.Argument, vi *valueIndex) ram.Expression {
	switch v := arg.(type) {
	case nil:
		return &ram.Undefined{}
	case *ast.Variable:
		loc := vi.definitionPoint(v.Name)
		return &ram.TupleElement{Level: loc.Level, Column: loc.Column}
	case *ast.UnnamedVariable:
		return &ram.Undefined{}
	case *ast.SignedConstant:
		return &ram.SignedConstant{Value: v.Value}
	case *ast.UnsignedConstant:
		return &ram.UnsignedConstant{Value: v.Value}
	case *ast.FloatConstant:
		return &ram.FloatConstant{Value: v.Value}
	case *ast.StringConstant:
		return &ram.SignedConstant{Value: v.Index}
	case *ast.NilConstant:
		return &ram.SignedConstant{Value: 0}
	case *ast.RecordInit:
		return &ram.PackRecord{Arguments: translateValues(v.Arguments, vi)}
	case *ast.IntrinsicFunctor:
		return &ram.IntrinsicOperator{Op: intrinsicOpFromAST(v.Op), Arguments: translateValues(v.Arguments, vi)}
	case *ast.UserDefinedFunctor:
		return &ram.UserDefinedOperator{Name: v.Name, Type: v.Type, Arguments: translateValues(v.Arguments, vi)}
	case *ast.Counter:
		return &ram.AutoIncrement{}
	case *ast.Aggregator:
		loc := vi.aggregatorLocation(v)
		return &ram.TupleElement{Level: loc.Level, Column: loc.Column}
	case *ast.SubroutineArgument:
		return &ram.SubroutineArgument{Index: v.Index}
	default:
		panic("translate: translateValue: unrecognised argument variant")
	}
}

func translateValues(args []ast.Argument, vi *valueIndex) []ram.Expression {
	if args == nil {
		return nil
	}
	out := make([]ram.Expression, len(args))
	for i, a := range args {
		out[i] = translateValue(a, vi)
	}
	return out
}

func intrinsicOpFromAST(op ast.IntrinsicFunctorOp) ram.IntrinsicOp {
	switch op {
	case ast.IntrinsicAdd:
		return ram.OpAdd
	case ast.IntrinsicSub:
		return ram.OpSub
	case ast.IntrinsicMul:
		return ram.OpMul
	case ast.IntrinsicDiv:
		return ram.OpDiv
	case ast.IntrinsicMod:
		return ram.OpMod
	case ast.IntrinsicNeg:
		return ram.OpNeg
	case ast.IntrinsicBAnd:
		return ram.OpBAnd
	case ast.IntrinsicBOr:
		return ram.OpBOr
	case ast.IntrinsicBXor:
		return ram.OpBXor
	case ast.IntrinsicLAnd:
		return ram.OpLAnd
	case ast.IntrinsicLOr:
		return ram.OpLOr
	case ast.IntrinsicLNot:
		return ram.OpLNot
	case ast.IntrinsicMax:
		return ram.OpMax
	case ast.IntrinsicMin:
		return ram.OpMin
	case ast.IntrinsicCat:
		return ram.OpCat
	default:
		panic("translate: intrinsicOpFromAST: unrecognised intrinsic operator")
	}
}

func aggregateFunctionFromAST(op ast.AggregatorOp) ram.AggregateFunction {
	switch op {
	case ast.AggregateMin:
		return ram.AggregateMin
	case ast.AggregateMax:
		return ram.AggregateMax
	case ast.AggregateCount:
		return ram.AggregateCount
	case ast.AggregateSum:
		return ram.AggregateSum
	default:
		panic("translate: aggregateFunctionFromAST: unrecognised aggregator operator")
	}
}

func constraintOpFromAST(op ast.BinaryConstraintOp) ram.ConstraintOp {
	switch op {
	case ast.ConstraintEq:
		return ram.ConstraintEq
	case ast.ConstraintNe:
		return ram.ConstraintNe
	case ast.ConstraintLt:
		return ram.ConstraintLt
	case ast.ConstraintLe:
		return ram.ConstraintLe
	case ast.ConstraintGt:
		return ram.ConstraintGt
	case ast.ConstraintGe:
		return ram.ConstraintGe
	default:
		panic("translate: constraintOpFromAST: unrecognised constraint operator")
	}
}
