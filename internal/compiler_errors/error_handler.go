package compiler_errors

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type ErrorHandler interface {
	AddSource(fileName string, src []byte)
	AddError(err error)
	HasErrors() bool
	FailNow()
}

type CompilerErrorHandler struct {
	errors  []error
	sources map[string][]byte
	writer  io.Writer

	// Exit terminates the process after the report is written.
	Exit func(code int)
}

func NewErrorHandler(outputWriter io.Writer) *CompilerErrorHandler {
	return &CompilerErrorHandler{
		errors:  make([]error, 0),
		sources: make(map[string][]byte),
		writer:  outputWriter,
		Exit:    os.Exit,
	}
}

func (eh *CompilerErrorHandler) AddSource(fileName string, src []byte) {
	eh.sources[fileName] = src
}

func (eh *CompilerErrorHandler) AddError(err error) {
	eh.errors = append(eh.errors, err)
}

func (eh *CompilerErrorHandler) HasErrors() bool {
	return len(eh.errors) > 0
}

func (eh *CompilerErrorHandler) FailNow() {
	fmt.Fprintln(eh.writer, "Build failed with errors:")

	for _, err := range eh.errors {
		var compilerErr CompilerError
		if !errors.As(err, &compilerErr) {
			fmt.Fprintf(eh.writer, "ERROR: %v\n", err)
			continue
		}
		Render(eh.writer, compilerErr, eh.sources[compilerErr.GetFileName()])
	}

	eh.Exit(1)
}

// Render writes err with its location and, when src is available,
// the offending source line with the span underlined.
func Render(w io.Writer, err CompilerError, src []byte) {
	if err.GetLine() == 0 {
		fmt.Fprintf(w, "ERROR: %s\n", err.GetMessage())
		return
	}

	fmt.Fprintf(w, "ERROR: %s:%d:%d: %s\n", err.GetFileName(), err.GetLine(), err.GetColumn(), err.GetMessage())

	line, ok := sourceLine(src, err.GetLine())
	if !ok {
		return
	}

	gutter := fmt.Sprintf("%d", err.GetLine())
	fmt.Fprintf(w, " %s | %s\n", gutter, line)

	length := err.GetLength()
	if length < 1 {
		length = 1
	}
	padding := strings.Repeat(" ", max(err.GetColumn()-1, 0))
	fmt.Fprintf(w, " %s | %s%s\n", strings.Repeat(" ", len(gutter)), padding, strings.Repeat("^", length))
}

func sourceLine(src []byte, line int) (string, bool) {
	if src == nil {
		return "", false
	}

	lines := bytes.Split(src, []byte("\n"))
	if line < 1 || line > len(lines) {
		return "", false
	}

	return strings.TrimRight(string(lines[line-1]), "\r"), true
}
