package emitter

import (
	"fmt"

	"github.com/kievzenit/rlang/internal/compiler_errors"
	"tinygo.org/x/go-llvm"
)

func isTerminator(inst llvm.Value) bool {
	switch inst.InstructionOpcode() {
	case llvm.Ret, llvm.Br, llvm.Switch, llvm.IndirectBr, llvm.Invoke, llvm.Unreachable:
		return true
	}
	return false
}

// Verify checks the structural rules every lowered function must follow and
// then runs the LLVM verifier over the whole module.
func Verify(module llvm.Module) error {
	for fn := module.FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		if fn.IsDeclaration() {
			continue
		}
		if err := verifyFunction(fn); err != nil {
			return err
		}
	}

	if err := llvm.VerifyModule(module, llvm.ReturnStatusAction); err != nil {
		return &compiler_errors.ModuleVerificationError{Reason: err.Error()}
	}

	return nil
}

func verifyFunction(fn llvm.Value) error {
	entry := fn.EntryBasicBlock()

	for _, bb := range fn.BasicBlocks() {
		fail := func(format string, args ...any) error {
			return &compiler_errors.ModuleVerificationError{
				Function: fn.Name(),
				Block:    bb.AsValue().Name(),
				Reason:   fmt.Sprintf(format, args...),
			}
		}

		last := bb.LastInstruction()
		if last.IsNil() || !isTerminator(last) {
			return fail("block does not end with a terminator")
		}

		for inst := bb.FirstInstruction(); inst != last; inst = llvm.NextInstruction(inst) {
			if isTerminator(inst) {
				return fail("terminator in the middle of the block")
			}
		}

		for i := 0; i < last.OperandsCount(); i++ {
			operand := last.Operand(i)
			if operand.IsBasicBlock() && operand.AsBasicBlock() == entry {
				return fail("branch to the entry block")
			}
		}
	}

	return nil
}
