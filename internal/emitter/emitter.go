package emitter

import (
	"fmt"

	"github.com/kievzenit/rlang/internal/ast"
	"github.com/kievzenit/rlang/internal/compiler_errors"
	"github.com/kievzenit/rlang/internal/types"
	"tinygo.org/x/go-llvm"
)

// EntryPoint is the name of the function the executable starts in.
const EntryPoint = "main"

type funcSymbol struct {
	value    llvm.Value
	llvmType llvm.Type
	sig      *types.FunctionType
	span     ast.Span
}

// Emitter lowers one program into one LLVM module. State that lives for a
// single function is kept in funcContext and passed explicitly.
type Emitter struct {
	fileName string

	typesMap   map[string]llvm.Type
	funcsMap   map[string]*funcSymbol
	stringsMap map[string]llvm.Value

	context llvm.Context
	module  llvm.Module
	builder llvm.Builder
}

// funcContext is the code generation cursor for the function being lowered.
type funcContext struct {
	fn      llvm.Value
	sig     *types.FunctionType
	isEntry bool

	block      llvm.BasicBlock
	terminated bool

	scope *scope
}

func NewEmitter(fileName string) *Emitter {
	context := llvm.NewContext()
	e := &Emitter{
		fileName: fileName,

		typesMap:   make(map[string]llvm.Type),
		funcsMap:   make(map[string]*funcSymbol),
		stringsMap: make(map[string]llvm.Value),

		context: context,
		module:  context.NewModule("main"),
		builder: context.NewBuilder(),
	}
	e.declareTypes()
	return e
}

func (e *Emitter) Module() llvm.Module {
	return e.module
}

// IR returns the textual form of the module.
func (e *Emitter) IR() string {
	return e.module.String()
}

func (e *Emitter) Dispose() {
	e.builder.Dispose()
	e.module.Dispose()
	e.context.Dispose()
}

// Emit lowers prog and verifies the result. The returned module is owned by
// the Emitter and stays valid until Dispose.
func (e *Emitter) Emit(prog *ast.Program) (llvm.Module, error) {
	funcDecls, err := e.collectFuncDecls(prog)
	if err != nil {
		return llvm.Module{}, err
	}

	e.declareStdlib()
	for _, funcDecl := range funcDecls {
		if err := e.declareFunc(funcDecl); err != nil {
			return llvm.Module{}, err
		}
	}

	for _, funcDecl := range funcDecls {
		if funcDecl.Extern {
			continue
		}
		if err := e.emitFuncDecl(funcDecl); err != nil {
			return llvm.Module{}, err
		}
	}

	if err := Verify(e.module); err != nil {
		return llvm.Module{}, err
	}

	return e.module, nil
}

func (e *Emitter) semanticError(kind compiler_errors.SemanticErrorKind, span ast.Span, format string, args ...any) error {
	return compiler_errors.NewSemanticError(kind, e.fileName, span, format, args...)
}

func (e *Emitter) declareTypes() {
	e.typesMap[types.I32.Type()] = e.context.Int32Type()
	e.typesMap[types.I8.Type()] = e.context.Int8Type()
	e.typesMap[types.Bool.Type()] = e.context.Int1Type()
	e.typesMap[types.Str.Type()] = llvm.PointerType(e.context.Int8Type(), 0)
	e.typesMap[types.Void.Type()] = e.context.VoidType()
}

func (e *Emitter) getLlvmTypeForType(t types.Type) llvm.Type {
	if llvmType, ok := e.typesMap[t.Type()]; ok {
		return llvmType
	}

	panic(fmt.Sprintf("type %s has no llvm counterpart", t.Type()))
}

func (e *Emitter) resolveType(typeRef *ast.TypeRef, allowVoid bool) (types.Type, error) {
	t, ok := types.Lookup(typeRef.Name)
	if !ok {
		return nil, e.semanticError(compiler_errors.InvalidType, typeRef.Span, "unknown type '%s'", typeRef.Name)
	}
	if !allowVoid && types.IsVoid(t) {
		return nil, e.semanticError(compiler_errors.InvalidType, typeRef.Span, "void is only allowed as a return type")
	}
	return t, nil
}

// collectFuncDecls returns every function of prog. Statements written outside
// of any function become the body of an implicit entry point.
func (e *Emitter) collectFuncDecls(prog *ast.Program) ([]*ast.FuncDecl, error) {
	funcDecls := prog.Funcs()
	topLevel := prog.TopLevelStmts()

	var entry *ast.FuncDecl
	for _, funcDecl := range funcDecls {
		if funcDecl.Name == EntryPoint {
			entry = funcDecl
			break
		}
	}

	switch {
	case entry != nil && len(topLevel) > 0:
		return nil, e.semanticError(
			compiler_errors.DuplicateEntryPoint,
			topLevel[0].NodeSpan(),
			"statements outside of a function are not allowed when '%s' is declared", EntryPoint)
	case entry == nil && len(topLevel) == 0:
		return nil, e.semanticError(
			compiler_errors.MissingEntryPoint,
			prog.Span,
			"program has no entry point: declare 'fun %s()' or write top-level statements", EntryPoint)
	case entry == nil:
		span := topLevel[0].NodeSpan().Cover(topLevel[len(topLevel)-1].NodeSpan())
		funcDecls = append(funcDecls, &ast.FuncDecl{
			Span: span,

			Name: EntryPoint,
			Body: &ast.Block{Span: span, Stmts: topLevel},
		})
	}

	return funcDecls, nil
}

func (e *Emitter) addFunction(sig *types.FunctionType, span ast.Span) *funcSymbol {
	returnType := e.getLlvmTypeForType(sig.ReturnType)
	argsTypes := make([]llvm.Type, 0, len(sig.Args))
	for _, arg := range sig.Args {
		argsTypes = append(argsTypes, e.getLlvmTypeForType(arg.Type))
	}

	funcType := llvm.FunctionType(returnType, argsTypes, false)
	funcValue := llvm.AddFunction(e.module, sig.Name, funcType)
	for i, arg := range sig.Args {
		funcValue.Param(i).SetName(arg.Name)
	}

	symbol := &funcSymbol{
		value:    funcValue,
		llvmType: funcType,
		sig:      sig,
		span:     span,
	}
	e.funcsMap[sig.Name] = symbol
	return symbol
}

func (e *Emitter) declareStdlib() {
	for _, sig := range Stdlib {
		e.addFunction(sig, ast.Span{})
	}
}

func (e *Emitter) declareFunc(funcDecl *ast.FuncDecl) error {
	isEntry := funcDecl.Name == EntryPoint

	sig := &types.FunctionType{
		Name:       funcDecl.Name,
		Args:       make([]types.FunctionArgType, 0, len(funcDecl.Params)),
		ReturnType: types.Void,
		Extern:     funcDecl.Extern,
	}
	for _, param := range funcDecl.Params {
		paramType, err := e.resolveType(param.Type, false)
		if err != nil {
			return err
		}
		sig.Args = append(sig.Args, types.FunctionArgType{Name: param.Name, Type: paramType})
	}
	if funcDecl.ReturnType != nil {
		returnType, err := e.resolveType(funcDecl.ReturnType, true)
		if err != nil {
			return err
		}
		sig.ReturnType = returnType
	}

	if isEntry {
		if funcDecl.ReturnType == nil {
			sig.ReturnType = types.I32
		}
		if funcDecl.Extern || len(sig.Args) != 0 || !sig.ReturnType.SameAs(types.I32) {
			return e.semanticError(
				compiler_errors.InvalidType,
				funcDecl.Span,
				"entry point must be declared as 'fun %s(): i32' with a body", EntryPoint)
		}
	}

	if existing, ok := e.funcsMap[funcDecl.Name]; ok {
		// re-declaring a prototype with the same signature is harmless
		if funcDecl.Extern && existing.sig.Extern && existing.sig.SameAs(sig) {
			return nil
		}
		if existing.span == (ast.Span{}) {
			return e.semanticError(
				compiler_errors.Redeclared,
				funcDecl.Span,
				"function '%s' is already declared by the standard library", funcDecl.Name)
		}
		return e.semanticError(
			compiler_errors.Redeclared,
			funcDecl.Span,
			"function '%s' is already declared at %s", funcDecl.Name, existing.span.Start)
	}

	symbol := e.addFunction(sig, funcDecl.Span)
	if !funcDecl.Extern {
		framePointerAttr := e.context.CreateStringAttribute("frame-pointer", "all")
		noTrappingMathAttr := e.context.CreateStringAttribute("no-trapping-math", "true")
		symbol.value.AddFunctionAttr(framePointerAttr)
		symbol.value.AddFunctionAttr(noTrappingMathAttr)
	}

	return nil
}

func (e *Emitter) emitFuncDecl(funcDecl *ast.FuncDecl) error {
	symbol := e.funcsMap[funcDecl.Name]

	fc := &funcContext{
		fn:      symbol.value,
		sig:     symbol.sig,
		isEntry: funcDecl.Name == EntryPoint,

		scope: newScope(nil),
	}

	entryBasicBlock := e.context.AddBasicBlock(fc.fn, "entry")
	e.positionAt(fc, entryBasicBlock)

	for i, param := range funcDecl.Params {
		paramType := symbol.sig.Args[i].Type
		slot := e.createEntryBlockAlloca(fc, e.getLlvmTypeForType(paramType), param.Name+".addr")
		e.builder.CreateStore(fc.fn.Param(i), slot)

		if _, ok := fc.scope.defineVar(param.Name, varDefinition{Slot: slot, Type: paramType, Span: param.Span}); !ok {
			return e.semanticError(compiler_errors.Redeclared, param.Span, "parameter '%s' is declared twice", param.Name)
		}
	}

	if err := e.emitStmts(fc, funcDecl.Body.Stmts); err != nil {
		return err
	}

	if fc.terminated {
		return nil
	}

	switch {
	case fc.isEntry:
		e.builder.CreateRet(llvm.ConstInt(e.context.Int32Type(), 0, true))
	case types.IsVoid(fc.sig.ReturnType):
		e.builder.CreateRetVoid()
	default:
		return e.semanticError(
			compiler_errors.MissingReturn,
			funcDecl.Span,
			"function '%s' must return %s on every path", funcDecl.Name, fc.sig.ReturnType.Type())
	}
	fc.terminated = true

	return nil
}

// positionAt moves the cursor to the end of bb. A freshly positioned block is
// never terminated.
func (e *Emitter) positionAt(fc *funcContext, bb llvm.BasicBlock) {
	fc.block = bb
	fc.terminated = false
	e.builder.SetInsertPointAtEnd(bb)
}

func (e *Emitter) pushScope(fc *funcContext) {
	fc.scope = newScope(fc.scope)
}

func (e *Emitter) popScope(fc *funcContext) {
	fc.scope = fc.scope.parent
}

// createEntryBlockAlloca puts every stack slot at the top of the entry block,
// after the slots created so far, so that they dominate all uses regardless
// of where the variable is declared.
func (e *Emitter) createEntryBlockAlloca(fc *funcContext, t llvm.Type, name string) llvm.Value {
	entry := fc.fn.EntryBasicBlock()
	inst := entry.FirstInstruction()
	for !inst.IsNil() && !inst.IsAAllocaInst().IsNil() {
		inst = llvm.NextInstruction(inst)
	}
	if inst.IsNil() {
		e.builder.SetInsertPointAtEnd(entry)
	} else {
		e.builder.SetInsertPointBefore(inst)
	}

	slot := e.builder.CreateAlloca(t, name)
	e.builder.SetInsertPointAtEnd(fc.block)

	return slot
}
