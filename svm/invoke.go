package svm

import (
	"fmt"

	"github.com/badgerodon/collections/stack"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// InvokeContext is handed to a processor for the duration of one instruction.
type InvokeContext struct {
	rt        *Runtime
	journal   *journal
	stack     *stack.Stack
	programID solana.PublicKey
	accounts  []*AccountInfo
}

func (ictx *InvokeContext) ProgramID() solana.PublicKey {
	return ictx.programID
}

func (ictx *InvokeContext) Depth() int {
	return ictx.stack.Len()
}

func (ictx *InvokeContext) Log(format string, args ...interface{}) {
	ictx.journal.log("Program log: %s", fmt.Sprintf(format, args...))
}

// RecordMemo appends a memo to the transaction; it is kept only if the transaction succeeds.
func (ictx *InvokeContext) RecordMemo(data []byte, signers []solana.PublicKey) {
	record := &MemoRecord{
		Program: ictx.programID,
		Data:    append([]byte{}, data...),
		Signers: append([]solana.PublicKey{}, signers...),
	}
	ictx.journal.memos = append(ictx.journal.memos, record)
}

// Invoke runs ins as a cross-program invocation. infos must hold the callee program
// account and every account named by the instruction. Signer and writable flags come
// from the caller's own accounts, so a caller cannot grant privileges it was not given.
func (ictx *InvokeContext) Invoke(ins solana.Instruction, infos []*AccountInfo) error {
	if ictx.stack.Len() >= MaxInvokeDepth {
		return ErrCallDepth
	}
	programID := ins.ProgramID()
	programAccount := findAccount(infos, programID)
	if programAccount == nil {
		return errors.Wrapf(ErrMissingAccount, "program %s", programID)
	}
	if !programAccount.Executable {
		return errors.Wrapf(ErrAccountNotExecutable, "program %s", programID)
	}
	metas := ins.Accounts()
	callee := make([]*AccountInfo, 0, len(metas))
	for _, meta := range metas {
		if findAccount(infos, meta.PublicKey) == nil {
			return errors.Wrapf(ErrMissingAccount, "account %s", meta.PublicKey)
		}
		granted := findAccount(ictx.accounts, meta.PublicKey)
		if granted == nil {
			return errors.Wrapf(ErrMissingAccount, "account %s", meta.PublicKey)
		}
		if meta.IsSigner && !granted.IsSigner {
			ictx.journal.log("%s's signer privilege escalated", meta.PublicKey)
			return ErrPrivilegeEscalation
		}
		if meta.IsWritable && !granted.IsWritable {
			ictx.journal.log("%s's writable privilege escalated", meta.PublicKey)
			return ErrPrivilegeEscalation
		}
		info := granted.Clone()
		info.IsSigner = meta.IsSigner
		info.IsWritable = meta.IsWritable
		callee = append(callee, info)
	}
	data, err := ins.Data()
	if err != nil {
		return errors.Wrap(ErrInvalidInstructionData, err.Error())
	}
	return ictx.process(programID, callee, data)
}

func (ictx *InvokeContext) process(programID solana.PublicKey, accounts []*AccountInfo, data []byte) error {
	processor, ok := ictx.rt.programs[programID]
	if !ok {
		return errors.Wrapf(ErrProgramNotFound, "program %s", programID)
	}
	ictx.stack.Push(programID)
	defer ictx.stack.Pop()
	depth := ictx.stack.Len()
	ictx.journal.log("Program %s invoke [%d]", programID, depth)
	next := &InvokeContext{
		rt:        ictx.rt,
		journal:   ictx.journal,
		stack:     ictx.stack,
		programID: programID,
		accounts:  accounts,
	}
	if err := processor.Process(next, accounts, data); err != nil {
		ictx.journal.log("Program %s failed: %s", programID, err)
		return err
	}
	ictx.journal.log("Program %s success", programID)
	return nil
}
