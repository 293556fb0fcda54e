package relay

import (
	"github.com/egaotan/anchor-memo/program"
	"github.com/egaotan/anchor-memo/svm"
	"github.com/pkg/errors"
)

// InvokeMemoContext holds the accounts of a send_memo instruction.
type InvokeMemoContext struct {
	// pays for the transaction, must sign
	Payer *svm.AccountInfo
	// the memo program called through cpi
	MemoProgram *svm.AccountInfo
	// extra signers forwarded to the memo program, in caller order
	RemainingAccounts []*svm.AccountInfo
}

// TryAccounts checks the declared accounts before the handler runs.
func TryAccounts(accounts []*svm.AccountInfo) (*InvokeMemoContext, error) {
	if len(accounts) < 2 {
		return nil, svm.ErrNotEnoughAccountKeys
	}
	payer, memoProgram := accounts[0], accounts[1]
	if !payer.IsSigner {
		return nil, errors.Wrapf(svm.ErrMissingRequiredSignature, "payer %s", payer.Key)
	}
	if !payer.IsWritable {
		return nil, errors.Wrapf(svm.ErrAccountNotWritable, "payer %s", payer.Key)
	}
	if memoProgram.Key != program.Memo {
		return nil, errors.Wrapf(svm.ErrIncorrectProgramID, "memo program expected: %s, actual: %s", program.Memo, memoProgram.Key)
	}
	if !memoProgram.Executable {
		return nil, errors.Wrapf(svm.ErrAccountNotExecutable, "memo program %s", memoProgram.Key)
	}
	return &InvokeMemoContext{
		Payer:             payer,
		MemoProgram:       memoProgram,
		RemainingAccounts: accounts[2:],
	}, nil
}
