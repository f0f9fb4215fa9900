package target

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/kievzenit/rlang/internal/compiler_errors"
	"github.com/kievzenit/rlang/internal/emitter"
	"github.com/kievzenit/rlang/internal/parser"
	"github.com/nalgeon/be"
	"tinygo.org/x/go-llvm"
)

func TestObjectPath(t *testing.T) {
	be.Equal(t, ObjectPath("proj", "hello", false), filepath.Join("proj", "build", "debug", "hello.redd.it.o"))
	be.Equal(t, ObjectPath("proj", "hello", true), filepath.Join("proj", "build", "release", "hello.redd.it.o"))
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	be.Equal(t, c.triple(), llvm.DefaultTargetTriple())
	be.Equal(t, c.cpu(), "generic")
	be.Equal(t, c.optLevel(), llvm.CodeGenLevelNone)

	reloc, err := c.relocMode()
	be.Err(t, err, nil)
	be.Equal(t, reloc, llvm.RelocPIC)

	model, err := c.codeModel()
	be.Err(t, err, nil)
	be.Equal(t, model, llvm.CodeModelDefault)

	c.Release = true
	be.Equal(t, c.optLevel(), llvm.CodeGenLevelAggressive)
}

func TestConfigRejectsUnknownValues(t *testing.T) {
	_, err := Config{Reloc: "sideways"}.relocMode()
	be.Err(t, err, "unknown relocation mode 'sideways'")

	_, err = Config{CodeModel: "huge"}.codeModel()
	be.Err(t, err, "unknown code model 'huge'")

	model, err := Config{CodeModel: "Large"}.codeModel()
	be.Err(t, err, nil)
	be.Equal(t, model, llvm.CodeModelLarge)
}

func TestEmitObjectWritesNothingWhenVerificationFails(t *testing.T) {
	ctx := llvm.NewContext()
	defer ctx.Dispose()
	module := ctx.NewModule("broken")
	defer module.Dispose()

	fn := llvm.AddFunction(module, "main", llvm.FunctionType(ctx.Int32Type(), nil, false))
	ctx.AddBasicBlock(fn, "entry")

	path := filepath.Join(t.TempDir(), "build", "debug", "broken.redd.it.o")
	err := EmitObject(module, Config{}, path)

	var verErr *compiler_errors.ModuleVerificationError
	be.True(t, errors.As(err, &verErr))

	_, statErr := os.Stat(path)
	be.True(t, errors.Is(statErr, fs.ErrNotExist))
}

func TestEmitObjectForHost(t *testing.T) {
	for _, release := range []bool{false, true} {
		prog, err := parser.Parse("main.rl", []byte(`coitusinterruptus("hi\n");`))
		be.Err(t, err, nil)

		e := emitter.NewEmitter("main.rl")
		module, err := e.Emit(prog)
		be.Err(t, err, nil)

		dir := t.TempDir()
		path := ObjectPath(dir, "hello", release)
		err = EmitObject(module, Config{Release: release}, path)
		e.Dispose()
		be.Err(t, err, nil)

		info, err := os.Stat(path)
		be.Err(t, err, nil)
		be.True(t, info.Size() > 0)
	}
}
