package target

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kievzenit/rlang/internal/compiler_errors"
	"github.com/kievzenit/rlang/internal/emitter"
	"tinygo.org/x/go-llvm"
)

// Config describes the machine object code is generated for. Zero values
// fall back to the host.
type Config struct {
	Triple    string
	CPU       string
	Features  string
	Reloc     string
	CodeModel string
	Release   bool
}

var initOnce sync.Once

func initializeTargets() {
	initOnce.Do(func() {
		llvm.InitializeAllTargetInfos()
		llvm.InitializeAllTargets()
		llvm.InitializeAllTargetMCs()
		llvm.InitializeAllAsmParsers()
		llvm.InitializeAllAsmPrinters()
	})
}

func (c Config) triple() string {
	if c.Triple != "" {
		return c.Triple
	}
	return llvm.DefaultTargetTriple()
}

func (c Config) cpu() string {
	if c.CPU != "" {
		return c.CPU
	}
	return "generic"
}

func (c Config) optLevel() llvm.CodeGenOptLevel {
	if c.Release {
		return llvm.CodeGenLevelAggressive
	}
	return llvm.CodeGenLevelNone
}

func (c Config) relocMode() (llvm.RelocMode, error) {
	switch strings.ToLower(c.Reloc) {
	case "", "pic":
		return llvm.RelocPIC, nil
	case "static":
		return llvm.RelocStatic, nil
	case "default":
		return llvm.RelocDefault, nil
	case "dynamic-no-pic":
		return llvm.RelocDynamicNoPic, nil
	default:
		return 0, fmt.Errorf("unknown relocation mode '%s'", c.Reloc)
	}
}

func (c Config) codeModel() (llvm.CodeModel, error) {
	switch strings.ToLower(c.CodeModel) {
	case "", "default":
		return llvm.CodeModelDefault, nil
	case "small":
		return llvm.CodeModelSmall, nil
	case "kernel":
		return llvm.CodeModelKernel, nil
	case "medium":
		return llvm.CodeModelMedium, nil
	case "large":
		return llvm.CodeModelLarge, nil
	default:
		return 0, fmt.Errorf("unknown code model '%s'", c.CodeModel)
	}
}

// NewMachine creates the target machine described by c. The caller disposes it.
func NewMachine(c Config) (llvm.TargetMachine, error) {
	initializeTargets()

	reloc, err := c.relocMode()
	if err != nil {
		return llvm.TargetMachine{}, err
	}
	model, err := c.codeModel()
	if err != nil {
		return llvm.TargetMachine{}, err
	}

	triple := c.triple()
	t, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return llvm.TargetMachine{}, fmt.Errorf("target %s: %w", triple, err)
	}

	return t.CreateTargetMachine(triple, c.cpu(), c.Features, c.optLevel(), reloc, model), nil
}

// EmitObject verifies module and writes it as an object file to path.
// Nothing is written when verification or code generation fails.
func EmitObject(module llvm.Module, c Config, path string) error {
	if err := emitter.Verify(module); err != nil {
		return err
	}

	machine, err := NewMachine(c)
	if err != nil {
		return &compiler_errors.ExternalToolError{Tool: "llvm", Err: err}
	}
	defer machine.Dispose()

	targetData := machine.CreateTargetData()
	defer targetData.Dispose()
	module.SetTarget(c.triple())
	module.SetDataLayout(targetData.String())

	if c.Release {
		options := llvm.NewPassBuilderOptions()
		defer options.Dispose()
		if err := module.RunPasses("default<O3>", machine, options); err != nil {
			return &compiler_errors.ExternalToolError{Tool: "llvm", Err: err}
		}
	}

	buf, err := machine.EmitToMemoryBuffer(module, llvm.ObjectFile)
	if err != nil {
		return &compiler_errors.ExternalToolError{Tool: "llvm", Err: err}
	}
	defer buf.Dispose()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &compiler_errors.ExternalToolError{Tool: "filesystem", Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &compiler_errors.ExternalToolError{Tool: "filesystem", Err: err}
	}

	return nil
}

// BuildDir is build/debug or build/release inside the project.
func BuildDir(projectDir string, release bool) string {
	mode := "debug"
	if release {
		mode = "release"
	}
	return filepath.Join(projectDir, "build", mode)
}

func ObjectPath(projectDir, name string, release bool) string {
	return filepath.Join(BuildDir(projectDir, release), name+".redd.it.o")
}
