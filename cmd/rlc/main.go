package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kievzenit/rlang/internal/compiler_errors"
	"github.com/kievzenit/rlang/internal/emitter"
	"github.com/kievzenit/rlang/internal/parser"
	"github.com/kievzenit/rlang/internal/project"
	"github.com/kievzenit/rlang/internal/target"
	"github.com/kievzenit/rlang/internal/toolchain"
	"github.com/sanity-io/litter"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `rlc - compiler for .rl projects

Usage:
  rlc cook [-release] [-emit-ir] [-dump-ast] [-dir DIR]
  rlc new -name NAME [-dir DIR]
  rlc help
`)
}

type cookOptions struct {
	dir     string
	release bool
	emitIR  bool
	dumpAST bool
}

// cook builds the project in opts.dir. Sources read along the way are
// registered with eh so diagnostics can quote them.
func cook(ctx context.Context, logger *log.Logger, out io.Writer, eh compiler_errors.ErrorHandler, opts cookOptions) error {
	proj, err := project.Find(opts.dir)
	if err != nil {
		return &compiler_errors.ExternalToolError{Tool: "project", Err: err}
	}

	mainFile := proj.MainFile()
	src, err := os.ReadFile(mainFile)
	if err != nil {
		return &compiler_errors.ExternalToolError{Tool: "project", Err: err}
	}
	eh.AddSource(mainFile, src)

	logger.Println("Lexing/Parsing")
	prog, err := parser.Parse(mainFile, src)
	if err != nil {
		return err
	}
	if opts.dumpAST {
		fmt.Fprintln(out, litter.Sdump(prog))
	}

	logger.Println("Converting AST to LLVM")
	e := emitter.NewEmitter(mainFile)
	defer e.Dispose()
	module, err := e.Emit(prog)
	if err != nil {
		return err
	}
	if opts.emitIR {
		fmt.Fprint(out, e.IR())
	}

	logger.Println("Compiling")
	objectPath := proj.ObjectPath(opts.release)
	if err := target.EmitObject(module, proj.TargetConfig(opts.release), objectPath); err != nil {
		return err
	}

	logger.Println("Linking")
	executable := proj.ExecutablePath(opts.release)
	err = toolchain.Link(ctx, toolchain.Options{
		Object:   objectPath,
		Archives: []string{proj.Config.Stdlib},
		Output:   executable,
		Release:  opts.release,
	})
	if err != nil {
		return err
	}

	logger.Printf("Done! Executable is available at %s", executable)
	return nil
}

func cookCommand(args []string) {
	fs := flag.NewFlagSet("cook", flag.ExitOnError)
	release := fs.Bool("release", false, "Build with optimizations into build/release")
	emitIR := fs.Bool("emit-ir", false, "Print the LLVM IR of the program")
	dumpAST := fs.Bool("dump-ast", false, "Print the AST of the program")
	dir := fs.String("dir", ".", "Project directory containing walter.yml")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rlc cook [options]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	logger := log.New(os.Stderr, "rlc: ", log.LstdFlags)
	eh := compiler_errors.NewErrorHandler(os.Stderr)

	opts := cookOptions{dir: *dir, release: *release, emitIR: *emitIR, dumpAST: *dumpAST}
	if err := cook(context.Background(), logger, os.Stdout, eh, opts); err != nil {
		eh.AddError(err)
		eh.FailNow()
	}
}

func newCommand(args []string) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	name := fs.String("name", "", "Name of the project")
	dir := fs.String("dir", ".", "Directory to create the project in")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rlc new -name NAME [options]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	logger := log.New(os.Stderr, "rlc: ", log.LstdFlags)
	eh := compiler_errors.NewErrorHandler(os.Stderr)

	proj, err := project.New(*dir, *name)
	if err != nil {
		eh.AddError(&compiler_errors.ExternalToolError{Tool: "project", Err: err})
		eh.FailNow()
		return
	}

	logger.Printf("Created project %s in %s", proj.Config.Name, proj.Dir)
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "cook":
		cookCommand(args)
	case "new":
		newCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
