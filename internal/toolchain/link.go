package toolchain

import (
	"context"
	"os"
	"os/exec"

	"github.com/kievzenit/rlang/internal/compiler_errors"
)

const DefaultCC = "cc"

type Options struct {
	// CC is the C compiler driver used as the linker, $CC or cc when empty.
	CC       string
	Object   string
	Archives []string
	Output   string
	Release  bool
}

func (o Options) compiler() string {
	if o.CC != "" {
		return o.CC
	}
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}
	return DefaultCC
}

// Args returns the command line Link runs, without the program name.
func (o Options) Args() []string {
	args := []string{"-O0"}
	if o.Release {
		args[0] = "-O3"
	}
	args = append(args, o.Object)
	args = append(args, o.Archives...)
	return append(args, "-o", o.Output)
}

// Link runs the C compiler driver to produce an executable and waits for it.
func Link(ctx context.Context, o Options) error {
	cc := o.compiler()

	cmd := exec.CommandContext(ctx, cc, o.Args()...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &compiler_errors.ExternalToolError{Tool: cc, Err: err, Output: string(output)}
	}

	return nil
}
