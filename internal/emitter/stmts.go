package emitter

import (
	"github.com/kievzenit/rlang/internal/ast"
	"github.com/kievzenit/rlang/internal/compiler_errors"
	"github.com/kievzenit/rlang/internal/types"
	"tinygo.org/x/go-llvm"
)

func (e *Emitter) emitStmts(fc *funcContext, stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if fc.terminated {
			return e.semanticError(compiler_errors.UnreachableCode, stmt.NodeSpan(), "statement is never executed")
		}
		if err := e.emitStmt(fc, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitStmt(fc *funcContext, stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return e.emitBlock(fc, s)
	case *ast.VarDecl:
		return e.emitVarDecl(fc, s)
	case *ast.AssignStmt:
		return e.emitAssignStmt(fc, s)
	case *ast.IfStmt:
		return e.emitIfStmt(fc, s)
	case *ast.WhileStmt:
		return e.emitWhileStmt(fc, s)
	case *ast.ReturnStmt:
		return e.emitReturnStmt(fc, s)
	case *ast.ExprStmt:
		_, _, err := e.emitExpr(fc, s.Expr, nil)
		return err
	case *ast.FuncDecl:
		return e.semanticError(compiler_errors.MalformedAST, s.Span, "function '%s' cannot be declared inside a function", s.Name)
	default:
		return e.semanticError(compiler_errors.MalformedAST, stmt.NodeSpan(), "unsupported statement %T", stmt)
	}
}

func (e *Emitter) emitBlock(fc *funcContext, block *ast.Block) error {
	e.pushScope(fc)
	defer e.popScope(fc)

	return e.emitStmts(fc, block.Stmts)
}

func (e *Emitter) emitVarDecl(fc *funcContext, varDecl *ast.VarDecl) error {
	var declaredType types.Type
	if varDecl.Type != nil {
		t, err := e.resolveType(varDecl.Type, false)
		if err != nil {
			return err
		}
		declaredType = t
	}

	// the initializer cannot see the variable it initializes
	value, valueType, err := e.emitExpr(fc, varDecl.Value, declaredType)
	if err != nil {
		return err
	}
	if types.IsVoid(valueType) {
		return e.semanticError(compiler_errors.TypeMismatch, varDecl.Value.NodeSpan(), "void value cannot initialize '%s'", varDecl.Name)
	}
	if declaredType != nil && !declaredType.SameAs(valueType) {
		return e.semanticError(
			compiler_errors.TypeMismatch,
			varDecl.Value.NodeSpan(),
			"cannot initialize '%s' of type %s with %s", varDecl.Name, declaredType.Type(), valueType.Type())
	}

	slot := e.createEntryBlockAlloca(fc, e.getLlvmTypeForType(valueType), varDecl.Name)
	e.builder.CreateStore(value, slot)

	existing, ok := fc.scope.defineVar(varDecl.Name, varDefinition{Slot: slot, Type: valueType, Span: varDecl.Span})
	if !ok {
		return e.semanticError(
			compiler_errors.Redeclared,
			varDecl.Span,
			"variable '%s' is already declared at %s", varDecl.Name, existing.Span.Start)
	}

	return nil
}

func (e *Emitter) emitAssignStmt(fc *funcContext, assignStmt *ast.AssignStmt) error {
	variable, ok := fc.scope.lookupVar(assignStmt.Name)
	if !ok {
		return e.semanticError(compiler_errors.UndefinedSymbol, assignStmt.Span, "undefined variable '%s'", assignStmt.Name)
	}

	value, valueType, err := e.emitExpr(fc, assignStmt.Value, variable.Type)
	if err != nil {
		return err
	}
	if !variable.Type.SameAs(valueType) {
		return e.semanticError(
			compiler_errors.TypeMismatch,
			assignStmt.Value.NodeSpan(),
			"cannot assign %s to '%s' of type %s", valueType.Type(), assignStmt.Name, variable.Type.Type())
	}

	e.builder.CreateStore(value, variable.Slot)
	return nil
}

func (e *Emitter) emitIfStmt(fc *funcContext, ifStmt *ast.IfStmt) error {
	cond, err := e.emitCondition(fc, ifStmt.Cond)
	if err != nil {
		return err
	}

	thenBlock := e.context.AddBasicBlock(fc.fn, "if.then")
	mergeBlock := e.context.AddBasicBlock(fc.fn, "if.merge")
	elseBlock := mergeBlock
	if ifStmt.Else != nil {
		elseBlock = e.context.AddBasicBlock(fc.fn, "if.else")
	}
	e.builder.CreateCondBr(cond, thenBlock, elseBlock)

	e.positionAt(fc, thenBlock)
	if err := e.emitBlock(fc, ifStmt.Then); err != nil {
		return err
	}
	thenTerminated := fc.terminated
	if !thenTerminated {
		e.builder.CreateBr(mergeBlock)
	}

	elseTerminated := false
	if ifStmt.Else != nil {
		e.moveToEnd(fc, elseBlock)
		e.positionAt(fc, elseBlock)
		if err := e.emitStmt(fc, ifStmt.Else); err != nil {
			return err
		}
		elseTerminated = fc.terminated
		if !elseTerminated {
			e.builder.CreateBr(mergeBlock)
		}
	}

	if thenTerminated && elseTerminated {
		// nothing jumps to the merge block, the statement itself terminates
		mergeBlock.EraseFromParent()
		fc.terminated = true
		return nil
	}

	e.moveToEnd(fc, mergeBlock)
	e.positionAt(fc, mergeBlock)
	return nil
}

func (e *Emitter) emitWhileStmt(fc *funcContext, whileStmt *ast.WhileStmt) error {
	headerBlock := e.context.AddBasicBlock(fc.fn, "while.header")
	bodyBlock := e.context.AddBasicBlock(fc.fn, "while.body")
	exitBlock := e.context.AddBasicBlock(fc.fn, "while.exit")

	e.builder.CreateBr(headerBlock)

	e.positionAt(fc, headerBlock)
	cond, err := e.emitCondition(fc, whileStmt.Cond)
	if err != nil {
		return err
	}
	e.builder.CreateCondBr(cond, bodyBlock, exitBlock)

	e.moveToEnd(fc, bodyBlock)
	e.positionAt(fc, bodyBlock)
	if err := e.emitBlock(fc, whileStmt.Body); err != nil {
		return err
	}
	if !fc.terminated {
		e.builder.CreateBr(headerBlock)
	}

	e.moveToEnd(fc, exitBlock)
	e.positionAt(fc, exitBlock)
	return nil
}

func (e *Emitter) emitReturnStmt(fc *funcContext, returnStmt *ast.ReturnStmt) error {
	returnType := fc.sig.ReturnType

	if returnStmt.Value == nil {
		switch {
		case fc.isEntry:
			e.builder.CreateRet(llvm.ConstInt(e.context.Int32Type(), 0, true))
		case types.IsVoid(returnType):
			e.builder.CreateRetVoid()
		default:
			return e.semanticError(
				compiler_errors.TypeMismatch,
				returnStmt.Span,
				"function '%s' must return a value of type %s", fc.sig.Name, returnType.Type())
		}
		fc.terminated = true
		return nil
	}

	if types.IsVoid(returnType) {
		return e.semanticError(
			compiler_errors.TypeMismatch,
			returnStmt.Value.NodeSpan(),
			"function '%s' does not return a value", fc.sig.Name)
	}

	value, valueType, err := e.emitExpr(fc, returnStmt.Value, returnType)
	if err != nil {
		return err
	}
	if !returnType.SameAs(valueType) {
		return e.semanticError(
			compiler_errors.TypeMismatch,
			returnStmt.Value.NodeSpan(),
			"cannot return %s from function '%s' returning %s", valueType.Type(), fc.sig.Name, returnType.Type())
	}

	e.builder.CreateRet(value)
	fc.terminated = true
	return nil
}

// moveToEnd places bb after every block emitted so far, so the layout follows
// source order even when nested statements appended blocks of their own.
func (e *Emitter) moveToEnd(fc *funcContext, bb llvm.BasicBlock) {
	last := fc.fn.LastBasicBlock()
	if last != bb {
		bb.MoveAfter(last)
	}
}
