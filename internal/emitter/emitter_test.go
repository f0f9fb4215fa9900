package emitter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kievzenit/rlang/internal/compiler_errors"
	"github.com/kievzenit/rlang/internal/mdtest"
	"github.com/kievzenit/rlang/internal/parser"
	"github.com/nalgeon/be"
	"tinygo.org/x/go-llvm"
)

func emit(t *testing.T, src string) (*Emitter, error) {
	t.Helper()

	prog, err := parser.Parse("main.rl", []byte(src))
	be.Err(t, err, nil)

	e := NewEmitter("main.rl")
	t.Cleanup(e.Dispose)

	_, err = e.Emit(prog)
	return e, err
}

func TestMarkdownCases(t *testing.T) {
	files, err := filepath.Glob("testdata/*.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".md"), func(t *testing.T) {
			content, err := os.ReadFile(file)
			be.Err(t, err, nil)

			testCases, err := mdtest.Extract(content)
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					e, err := emit(t, tc.Input)

					for _, assertion := range tc.Assertions {
						switch assertion.Type {
						case mdtest.AssertionIR:
							be.Err(t, err, nil)
							if missing, ok := mdtest.ContainsInOrder(e.IR(), assertion.Content); !ok {
								t.Fatalf("line %d: %q not found in order in:\n%s", assertion.Line, missing, e.IR())
							}
						case mdtest.AssertionCompileError:
							be.Err(t, err, assertion.Content)
						default:
							t.Fatalf("line %d: %s assertions are not supported here", assertion.Line, assertion.Type)
						}
					}
				})
			}
		})
	}
}

const program = `extern fun coitusinterruptus(s: str);

fun classify(n: i32): i32 {
    if n < 0 {
        return 0 - 1;
    } else if n == 0 {
        return 0;
    }
    let i = 0;
    while i < n && i != 100 {
        if i % 2 == 0 || false {
            coitusinterruptus("even\n");
        } else {
            coitusinterruptus("odd\n");
        }
        i = i + 1;
    }
    return 1;
}

fun main(): i32 {
    classify(10);
    while true {
        return 0;
    }
    return 1;
}
`

func TestEveryBlockIsTerminated(t *testing.T) {
	e, err := emit(t, program)
	be.Err(t, err, nil)

	for fn := e.Module().FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		if fn.IsDeclaration() {
			continue
		}

		blocks := fn.BasicBlocks()
		be.True(t, len(blocks) > 0)
		be.Equal(t, blocks[0].AsValue().Name(), "entry")
		be.Equal(t, fn.EntryBasicBlock(), blocks[0])

		for _, bb := range blocks {
			be.True(t, isTerminator(bb.LastInstruction()))
			for inst := bb.FirstInstruction(); inst != bb.LastInstruction(); inst = llvm.NextInstruction(inst) {
				be.Equal(t, isTerminator(inst), false)
			}
		}
	}

	be.Err(t, Verify(e.Module()), nil)
}

func TestIfWithBothBranchesReturning(t *testing.T) {
	e, err := emit(t, "fun f(b: bool): i32 { if b { return 1; } else { return 2; } }\nf(true);")
	be.Err(t, err, nil)
	be.Equal(t, strings.Contains(e.IR(), "if.merge"), false)

	_, err = emit(t, "fun f(b: bool): i32 { if b { return 1; } }\nf(true);")
	be.True(t, compiler_errors.IsSemantic(err, compiler_errors.MissingReturn))
}

func TestVoidFunctionGetsImplicitReturn(t *testing.T) {
	e, err := emit(t, "fun f() { coitusinterruptus(\"x\"); }\nf();")
	be.Err(t, err, nil)

	_, ok := mdtest.ContainsInOrder(e.IR(), "define void @f()\ncall void @coitusinterruptus(\nret void")
	be.True(t, ok)
}

func TestStringLiteralsAreShared(t *testing.T) {
	e, err := emit(t, `coitusinterruptus("same"); coitusinterruptus("same"); coitusinterruptus("other");`)
	be.Err(t, err, nil)

	be.Equal(t, strings.Count(e.IR(), "private unnamed_addr constant"), 2)
	be.True(t, strings.Contains(e.IR(), "@.str.1"))
	be.Equal(t, strings.Contains(e.IR(), "@.str.2"), false)
}

func TestUndefinedFunctionCitesCallSite(t *testing.T) {
	_, err := emit(t, "let a = 1;\nlet b = a + missing(a, 2);")

	semErr, ok := err.(*compiler_errors.SemanticError)
	be.True(t, ok)
	be.Equal(t, semErr.Kind, compiler_errors.UndefinedFunction)
	be.Equal(t, semErr.GetLine(), 2)
	be.Equal(t, semErr.GetColumn(), 13)
	be.Equal(t, semErr.GetLength(), 13)
}

func TestFunctionsCanBeCalledBeforeDeclaration(t *testing.T) {
	e, err := emit(t, "later(1);\nfun later(x: i32) {}")
	be.Err(t, err, nil)
	be.True(t, strings.Contains(e.IR(), "call void @later(i32 1)"))
}

func TestRecursion(t *testing.T) {
	e, err := emit(t, "fun fact(n: i32): i32 { if n <= 1 { return 1; } return n * fact(n - 1); }\nfact(5);")
	be.Err(t, err, nil)
	be.True(t, strings.Contains(e.IR(), "call i32 @fact(i32 %subtmp)"))
}

func newBrokenFunction(t *testing.T) (llvm.Context, llvm.Module, llvm.Builder, llvm.BasicBlock) {
	t.Helper()

	ctx := llvm.NewContext()
	module := ctx.NewModule("broken")
	builder := ctx.NewBuilder()
	t.Cleanup(func() {
		builder.Dispose()
		module.Dispose()
		ctx.Dispose()
	})

	fn := llvm.AddFunction(module, "broken", llvm.FunctionType(ctx.VoidType(), nil, false))
	entry := ctx.AddBasicBlock(fn, "entry")
	builder.SetInsertPointAtEnd(entry)

	return ctx, module, builder, entry
}

func TestVerifyRejectsUnterminatedBlock(t *testing.T) {
	ctx, module, builder, _ := newBrokenFunction(t)
	builder.CreateAlloca(ctx.Int32Type(), "x")

	err := Verify(module)

	verErr, ok := err.(*compiler_errors.ModuleVerificationError)
	be.True(t, ok)
	be.Equal(t, verErr.Function, "broken")
	be.Equal(t, verErr.Block, "entry")
	be.Equal(t, verErr.Reason, "block does not end with a terminator")
}

func TestVerifyRejectsEmptyBlock(t *testing.T) {
	_, module, _, _ := newBrokenFunction(t)

	err := Verify(module)
	be.Err(t, err, "block does not end with a terminator")
}

func TestVerifyRejectsTerminatorInTheMiddle(t *testing.T) {
	_, module, builder, _ := newBrokenFunction(t)
	builder.CreateRetVoid()
	builder.CreateRetVoid()

	err := Verify(module)
	be.Err(t, err, "terminator in the middle of the block")
}

func TestVerifyRejectsBranchToEntry(t *testing.T) {
	_, module, builder, entry := newBrokenFunction(t)
	builder.CreateBr(entry)

	err := Verify(module)
	be.Err(t, err, "branch to the entry block")
}
