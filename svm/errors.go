package svm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMissingRequiredSignature = errors.New("missing required signature for instruction")
	ErrAccountNotWritable       = errors.New("instruction requires a writable account")
	ErrAccountNotExecutable     = errors.New("account is not executable")
	ErrIncorrectProgramID       = errors.New("incorrect program id for instruction")
	ErrInvalidInstructionData   = errors.New("invalid instruction data")
	ErrNotEnoughAccountKeys     = errors.New("insufficient account keys for instruction")
	ErrMissingAccount           = errors.New("an account required by the instruction is missing")
	ErrPrivilegeEscalation      = errors.New("cross-program invocation with unauthorized signer or writable account")
	ErrProgramNotFound          = errors.New("attempt to load a program that does not exist")
	ErrCallDepth                = errors.New("cross-program invocation call depth too deep")
	ErrNoInstructions           = errors.New("transaction contains no instructions")
)

// InstructionError is returned by Execute when one instruction of the transaction fails.
type InstructionError struct {
	Index int
	Err   error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %s", e.Index, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}

func (e *InstructionError) Cause() error {
	return e.Err
}
