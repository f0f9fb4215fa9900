package emitter

import (
	"fmt"

	"github.com/kievzenit/rlang/internal/ast"
	"github.com/kievzenit/rlang/internal/compiler_errors"
	"github.com/kievzenit/rlang/internal/types"
	"tinygo.org/x/go-llvm"
)

// emitExpr lowers expr and returns its value and type. hint is the type the
// surrounding code expects, integer literals take its width when it is an integer.
func (e *Emitter) emitExpr(fc *funcContext, expr ast.Expr, hint types.Type) (llvm.Value, types.Type, error) {
	switch ex := expr.(type) {
	case *ast.IntLiteral:
		return e.emitIntLiteral(ex, hint)
	case *ast.CharLiteral:
		return llvm.ConstInt(e.context.Int8Type(), uint64(ex.Value), false), types.I8, nil
	case *ast.BoolLiteral:
		var value uint64
		if ex.Value {
			value = 1
		}
		return llvm.ConstInt(e.context.Int1Type(), value, false), types.Bool, nil
	case *ast.StringLiteral:
		return e.emitStringLiteral(ex), types.Str, nil
	case *ast.Ident:
		return e.emitIdent(fc, ex)
	case *ast.CallExpr:
		return e.emitCallExpr(fc, ex)
	case *ast.BinaryExpr:
		if ex.Op.IsLogical() {
			value, err := e.emitLogicalExpr(fc, ex)
			return value, types.Bool, err
		}
		return e.emitBinaryExpr(fc, ex, hint)
	default:
		return llvm.Value{}, nil, e.semanticError(compiler_errors.MalformedAST, expr.NodeSpan(), "unsupported expression %T", expr)
	}
}

func (e *Emitter) emitIntLiteral(intLiteral *ast.IntLiteral, hint types.Type) (llvm.Value, types.Type, error) {
	intType := types.I32
	if hintInt, ok := hint.(*types.IntType); ok {
		intType = hintInt
	}

	if !intType.Fits(intLiteral.Value) {
		return llvm.Value{}, nil, e.semanticError(
			compiler_errors.InvalidLiteral,
			intLiteral.Span,
			"integer literal %d does not fit into %s", intLiteral.Value, intType.Type())
	}

	return llvm.ConstInt(e.getLlvmTypeForType(intType), uint64(intLiteral.Value), true), intType, nil
}

// emitStringLiteral returns a pointer to a private constant holding the
// NUL terminated bytes. Equal literals share one global.
func (e *Emitter) emitStringLiteral(stringLiteral *ast.StringLiteral) llvm.Value {
	if ptr, ok := e.stringsMap[stringLiteral.Value]; ok {
		return ptr
	}

	data := e.context.ConstString(stringLiteral.Value, true)
	global := llvm.AddGlobal(e.module, data.Type(), fmt.Sprintf(".str.%d", len(e.stringsMap)))
	global.SetInitializer(data)
	global.SetGlobalConstant(true)
	global.SetLinkage(llvm.PrivateLinkage)
	global.SetUnnamedAddr(true)

	zero := llvm.ConstInt(e.context.Int64Type(), 0, false)
	ptr := llvm.ConstInBoundsGEP(data.Type(), global, []llvm.Value{zero, zero})

	e.stringsMap[stringLiteral.Value] = ptr
	return ptr
}

func (e *Emitter) emitIdent(fc *funcContext, ident *ast.Ident) (llvm.Value, types.Type, error) {
	variable, ok := fc.scope.lookupVar(ident.Name)
	if !ok {
		return llvm.Value{}, nil, e.semanticError(compiler_errors.UndefinedSymbol, ident.Span, "undefined variable '%s'", ident.Name)
	}

	value := e.builder.CreateLoad(e.getLlvmTypeForType(variable.Type), variable.Slot, "loadtmp")
	return value, variable.Type, nil
}

func (e *Emitter) emitCallExpr(fc *funcContext, callExpr *ast.CallExpr) (llvm.Value, types.Type, error) {
	symbol, ok := e.funcsMap[callExpr.Name]
	if !ok {
		return llvm.Value{}, nil, e.semanticError(compiler_errors.UndefinedFunction, callExpr.Span, "undefined function '%s'", callExpr.Name)
	}

	sig := symbol.sig
	if len(callExpr.Args) != len(sig.Args) {
		return llvm.Value{}, nil, e.semanticError(
			compiler_errors.ArityMismatch,
			callExpr.Span,
			"function '%s' expects %d arguments, got %d", callExpr.Name, len(sig.Args), len(callExpr.Args))
	}

	args := make([]llvm.Value, 0, len(callExpr.Args))
	for i, argExpr := range callExpr.Args {
		argType := sig.Args[i].Type
		value, valueType, err := e.emitExpr(fc, argExpr, argType)
		if err != nil {
			return llvm.Value{}, nil, err
		}
		if !argType.SameAs(valueType) {
			return llvm.Value{}, nil, e.semanticError(
				compiler_errors.TypeMismatch,
				argExpr.NodeSpan(),
				"argument '%s' of '%s' must be %s, got %s", sig.Args[i].Name, callExpr.Name, argType.Type(), valueType.Type())
		}
		args = append(args, value)
	}

	name := "calltmp"
	if types.IsVoid(sig.ReturnType) {
		name = ""
	}

	return e.builder.CreateCall(symbol.llvmType, symbol.value, args, name), sig.ReturnType, nil
}

func (e *Emitter) emitBinaryExpr(fc *funcContext, binaryExpr *ast.BinaryExpr, hint types.Type) (llvm.Value, types.Type, error) {
	operandHint := hint
	if binaryExpr.Op.IsComparison() {
		operandHint = nil
	}

	var (
		leftValue, rightValue llvm.Value
		leftType, rightType   types.Type
		err                   error
	)

	// a literal on the left takes the width of the other operand
	_, leftIsLiteral := binaryExpr.Left.(*ast.IntLiteral)
	_, rightIsLiteral := binaryExpr.Right.(*ast.IntLiteral)
	if leftIsLiteral && !rightIsLiteral {
		if rightValue, rightType, err = e.emitExpr(fc, binaryExpr.Right, operandHint); err != nil {
			return llvm.Value{}, nil, err
		}
		if leftValue, leftType, err = e.emitExpr(fc, binaryExpr.Left, rightType); err != nil {
			return llvm.Value{}, nil, err
		}
	} else {
		if leftValue, leftType, err = e.emitExpr(fc, binaryExpr.Left, operandHint); err != nil {
			return llvm.Value{}, nil, err
		}
		if rightValue, rightType, err = e.emitExpr(fc, binaryExpr.Right, leftType); err != nil {
			return llvm.Value{}, nil, err
		}
	}

	if !leftType.SameAs(rightType) {
		return llvm.Value{}, nil, e.semanticError(
			compiler_errors.TypeMismatch,
			binaryExpr.Span,
			"operator '%s' cannot mix %s and %s", binaryExpr.Op, leftType.Type(), rightType.Type())
	}

	isInt := types.IsInt(leftType)
	_, isBool := leftType.(*types.BoolType)

	switch binaryExpr.Op {
	case ast.OpEq, ast.OpNe:
		if !isInt && !isBool {
			break
		}
		predicate := llvm.IntEQ
		name := "eqtmp"
		if binaryExpr.Op == ast.OpNe {
			predicate = llvm.IntNE
			name = "netmp"
		}
		return e.builder.CreateICmp(predicate, leftValue, rightValue, name), types.Bool, nil
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if !isInt {
			break
		}
		predicate, name := comparisonPredicate(binaryExpr.Op)
		return e.builder.CreateICmp(predicate, leftValue, rightValue, name), types.Bool, nil
	case ast.OpAdd:
		if isInt {
			return e.builder.CreateAdd(leftValue, rightValue, "addtmp"), leftType, nil
		}
	case ast.OpSub:
		if isInt {
			return e.builder.CreateSub(leftValue, rightValue, "subtmp"), leftType, nil
		}
	case ast.OpMul:
		if isInt {
			return e.builder.CreateMul(leftValue, rightValue, "multmp"), leftType, nil
		}
	case ast.OpDiv:
		if isInt {
			return e.builder.CreateSDiv(leftValue, rightValue, "divtmp"), leftType, nil
		}
	case ast.OpMod:
		if isInt {
			return e.builder.CreateSRem(leftValue, rightValue, "modtmp"), leftType, nil
		}
	}

	return llvm.Value{}, nil, e.semanticError(
		compiler_errors.TypeMismatch,
		binaryExpr.Span,
		"operator '%s' is not defined for %s", binaryExpr.Op, leftType.Type())
}

func comparisonPredicate(op ast.BinaryOp) (llvm.IntPredicate, string) {
	switch op {
	case ast.OpLt:
		return llvm.IntSLT, "lttmp"
	case ast.OpLe:
		return llvm.IntSLE, "letmp"
	case ast.OpGt:
		return llvm.IntSGT, "gttmp"
	default:
		return llvm.IntSGE, "getmp"
	}
}

// emitLogicalExpr short-circuits && and ||, the right operand runs in its own
// block and both outcomes meet in a phi.
func (e *Emitter) emitLogicalExpr(fc *funcContext, binaryExpr *ast.BinaryExpr) (llvm.Value, error) {
	prefix := "and"
	var shortValue uint64
	if binaryExpr.Op == ast.OpOr {
		prefix = "or"
		shortValue = 1
	}

	leftValue, err := e.emitCondition(fc, binaryExpr.Left)
	if err != nil {
		return llvm.Value{}, err
	}
	lastBlockInLeft := fc.block

	rhsBlock := e.context.AddBasicBlock(fc.fn, prefix+".rhs")
	mergeBlock := e.context.AddBasicBlock(fc.fn, prefix+".merge")
	if binaryExpr.Op == ast.OpAnd {
		e.builder.CreateCondBr(leftValue, rhsBlock, mergeBlock)
	} else {
		e.builder.CreateCondBr(leftValue, mergeBlock, rhsBlock)
	}

	e.positionAt(fc, rhsBlock)
	rightValue, err := e.emitCondition(fc, binaryExpr.Right)
	if err != nil {
		return llvm.Value{}, err
	}
	lastBlockInRight := fc.block
	e.builder.CreateBr(mergeBlock)

	e.moveToEnd(fc, mergeBlock)
	e.positionAt(fc, mergeBlock)

	boolType := e.context.Int1Type()
	phi := e.builder.CreatePHI(boolType, prefix+"phi")
	phi.AddIncoming(
		[]llvm.Value{llvm.ConstInt(boolType, shortValue, false)},
		[]llvm.BasicBlock{lastBlockInLeft},
	)
	phi.AddIncoming([]llvm.Value{rightValue}, []llvm.BasicBlock{lastBlockInRight})

	return phi, nil
}

// emitCondition lowers expr to an i1. Integers are true when non-zero.
func (e *Emitter) emitCondition(fc *funcContext, expr ast.Expr) (llvm.Value, error) {
	value, valueType, err := e.emitExpr(fc, expr, nil)
	if err != nil {
		return llvm.Value{}, err
	}

	switch t := valueType.(type) {
	case *types.BoolType:
		return value, nil
	case *types.IntType:
		zero := llvm.ConstInt(e.getLlvmTypeForType(t), 0, false)
		return e.builder.CreateICmp(llvm.IntNE, value, zero, "tobool"), nil
	default:
		return llvm.Value{}, e.semanticError(
			compiler_errors.TypeMismatch,
			expr.NodeSpan(),
			"condition must be bool or an integer, got %s", valueType.Type())
	}
}
