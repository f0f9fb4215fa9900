package compiler_errors

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/kievzenit/rlang/internal/ast"
	"github.com/nalgeon/be"
)

func span(line, column, length int) ast.Span {
	return ast.Span{
		Start: ast.Position{Line: line, Column: column},
		End:   ast.Position{Line: line, Column: column + length},
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	err := &SyntaxError{
		Found:    "'}'",
		Expected: []string{"';'"},
		FileName: "main.rl",
		Pos:      ast.Position{Line: 3, Column: 7},
	}
	be.Equal(t, err.Error(), "main.rl:3:7: syntax error: unexpected '}', expected ';'")

	err.Expected = []string{"IDENT", "INT"}
	be.Equal(t, err.GetMessage(), "unexpected '}', expected one of: IDENT, INT")

	err.Message = "unexpected character: '#'"
	be.Equal(t, err.GetMessage(), "unexpected character: '#'")
}

func TestSemanticError(t *testing.T) {
	err := NewSemanticError(UndefinedFunction, "main.rl", span(2, 5, 6), "undefined function '%s'", "printf")

	be.Equal(t, err.Error(), "main.rl:2:5: UndefinedFunction: undefined function 'printf'")
	be.Equal(t, err.GetLength(), 6)

	wrapped := fmt.Errorf("emit: %w", err)
	be.True(t, IsSemantic(wrapped, UndefinedFunction))
	be.Equal(t, IsSemantic(wrapped, MissingReturn), false)
	be.Equal(t, IsSemantic(errors.New("plain"), UndefinedFunction), false)
}

func TestExternalToolErrorUnwraps(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &ExternalToolError{Tool: "cc", Err: cause, Output: "ld: cannot find -lstd\n"}

	be.True(t, errors.Is(err, cause))
	be.Equal(t, err.Error(), "cc failed: exit status 1\nld: cannot find -lstd")
}

func TestModuleVerificationErrorMessage(t *testing.T) {
	err := &ModuleVerificationError{Function: "main", Block: "if.merge", Reason: "block does not end with a terminator"}
	be.Equal(t, err.Error(), "module verification failed in function 'main', block 'if.merge': block does not end with a terminator")
}

func TestRenderUnderlinesSpan(t *testing.T) {
	src := []byte("let a = 1;\nlet b = foo(a);\n")
	err := NewSemanticError(UndefinedFunction, "main.rl", span(2, 9, 6), "undefined function 'foo'")

	var buf bytes.Buffer
	Render(&buf, err, src)

	want := "ERROR: main.rl:2:9: undefined function 'foo'\n" +
		" 2 | let b = foo(a);\n" +
		"   |         ^^^^^^\n"
	be.Equal(t, buf.String(), want)
}

func TestRenderWithoutLocation(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, &ModuleVerificationError{Reason: "broken"}, nil)
	be.Equal(t, buf.String(), "ERROR: module verification failed: broken\n")
}

func TestFailNowReportsAndExits(t *testing.T) {
	var buf bytes.Buffer
	eh := NewErrorHandler(&buf)

	exitCode := -1
	eh.Exit = func(code int) { exitCode = code }

	eh.AddSource("main.rl", []byte("f();\n"))
	be.Equal(t, eh.HasErrors(), false)

	eh.AddError(NewSemanticError(UndefinedFunction, "main.rl", span(1, 1, 3), "undefined function 'f'"))
	eh.AddError(errors.New("disk full"))
	be.True(t, eh.HasErrors())

	eh.FailNow()

	be.Equal(t, exitCode, 1)
	want := "Build failed with errors:\n" +
		"ERROR: main.rl:1:1: undefined function 'f'\n" +
		" 1 | f();\n" +
		"   | ^^^\n" +
		"ERROR: disk full\n"
	be.Equal(t, buf.String(), want)
}
