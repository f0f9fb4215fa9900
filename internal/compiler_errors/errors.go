package compiler_errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kievzenit/rlang/internal/ast"
)

type CompilerError interface {
	error
	GetMessage() string
	GetFileName() string
	GetLine() int
	GetColumn() int
	GetLength() int
}

func location(fileName string, line, column int) string {
	if line == 0 {
		return fileName
	}
	return fmt.Sprintf("%s:%d:%d", fileName, line, column)
}

// SyntaxError is produced when the source cannot be matched against the grammar.
// Expected holds every rule or token that was attempted at Pos.
type SyntaxError struct {
	Message  string
	Found    string
	Expected []string

	FileName string
	Pos      ast.Position
	Length   int
}

func (e *SyntaxError) GetMessage() string {
	if e.Message != "" {
		return e.Message
	}

	switch len(e.Expected) {
	case 0:
		return fmt.Sprintf("unexpected %s", e.Found)
	case 1:
		return fmt.Sprintf("unexpected %s, expected %s", e.Found, e.Expected[0])
	default:
		return fmt.Sprintf("unexpected %s, expected one of: %s", e.Found, strings.Join(e.Expected, ", "))
	}
}

func (e *SyntaxError) GetFileName() string { return e.FileName }
func (e *SyntaxError) GetLine() int        { return e.Pos.Line }
func (e *SyntaxError) GetColumn() int      { return e.Pos.Column }
func (e *SyntaxError) GetLength() int      { return e.Length }

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: %s", location(e.FileName, e.Pos.Line, e.Pos.Column), e.GetMessage())
}

type SemanticErrorKind int

const (
	UndefinedSymbol SemanticErrorKind = iota
	UndefinedFunction
	MissingReturn
	MalformedAST
	InvalidLiteral
	Redeclared
	TypeMismatch
	ArityMismatch
	UnreachableCode
	MissingEntryPoint
	DuplicateEntryPoint
	InvalidType
)

func (k SemanticErrorKind) String() string {
	switch k {
	case UndefinedSymbol:
		return "UndefinedSymbol"
	case UndefinedFunction:
		return "UndefinedFunction"
	case MissingReturn:
		return "MissingReturn"
	case MalformedAST:
		return "MalformedAST"
	case InvalidLiteral:
		return "InvalidLiteral"
	case Redeclared:
		return "Redeclared"
	case TypeMismatch:
		return "TypeMismatch"
	case ArityMismatch:
		return "ArityMismatch"
	case UnreachableCode:
		return "UnreachableCode"
	case MissingEntryPoint:
		return "MissingEntryPoint"
	case DuplicateEntryPoint:
		return "DuplicateEntryPoint"
	case InvalidType:
		return "InvalidType"
	default:
		return fmt.Sprintf("SemanticErrorKind(%d)", int(k))
	}
}

type SemanticError struct {
	Kind    SemanticErrorKind
	Message string

	FileName string
	Span     ast.Span
}

func NewSemanticError(
	kind SemanticErrorKind,
	fileName string,
	span ast.Span,
	format string,
	args ...any,
) *SemanticError {
	return &SemanticError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),

		FileName: fileName,
		Span:     span,
	}
}

func (e *SemanticError) GetMessage() string  { return e.Message }
func (e *SemanticError) GetFileName() string { return e.FileName }
func (e *SemanticError) GetLine() int        { return e.Span.Start.Line }
func (e *SemanticError) GetColumn() int      { return e.Span.Start.Column }

func (e *SemanticError) GetLength() int {
	if e.Span.End.Line != e.Span.Start.Line {
		return 0
	}
	return e.Span.End.Column - e.Span.Start.Column
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s: %s", location(e.FileName, e.GetLine(), e.GetColumn()), e.Kind, e.Message)
}

// IsSemantic reports whether err is a *SemanticError of the given kind.
func IsSemantic(err error, kind SemanticErrorKind) bool {
	var semErr *SemanticError
	return errors.As(err, &semErr) && semErr.Kind == kind
}

type ModuleVerificationError struct {
	Function string
	Block    string
	Reason   string
}

func (e *ModuleVerificationError) GetMessage() string {
	switch {
	case e.Function == "":
		return fmt.Sprintf("module verification failed: %s", e.Reason)
	case e.Block == "":
		return fmt.Sprintf("module verification failed in function '%s': %s", e.Function, e.Reason)
	default:
		return fmt.Sprintf("module verification failed in function '%s', block '%s': %s", e.Function, e.Block, e.Reason)
	}
}

func (e *ModuleVerificationError) GetFileName() string { return "" }
func (e *ModuleVerificationError) GetLine() int        { return 0 }
func (e *ModuleVerificationError) GetColumn() int      { return 0 }
func (e *ModuleVerificationError) GetLength() int      { return 0 }
func (e *ModuleVerificationError) Error() string       { return e.GetMessage() }

// ExternalToolError wraps a failure of something outside the compiler core:
// the system linker, target code emission or the filesystem.
type ExternalToolError struct {
	Tool   string
	Err    error
	Output string
}

func (e *ExternalToolError) GetMessage() string {
	msg := fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *ExternalToolError) GetFileName() string { return "" }
func (e *ExternalToolError) GetLine() int        { return 0 }
func (e *ExternalToolError) GetColumn() int      { return 0 }
func (e *ExternalToolError) GetLength() int      { return 0 }
func (e *ExternalToolError) Error() string       { return e.GetMessage() }
func (e *ExternalToolError) Unwrap() error       { return e.Err }
