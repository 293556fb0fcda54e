package relay

import (
	"github.com/egaotan/anchor-memo/program"
	"github.com/egaotan/anchor-memo/svm"
	"github.com/gagliardetto/solana-go"
)

// SendMemo forwards memo to the memo program, co-signed by every remaining account.
// Errors of the memo program are returned as they are.
func SendMemo(ictx *svm.InvokeContext, ctx *InvokeMemoContext, memo []byte) error {
	signers, err := signerMetas(ctx.RemainingAccounts)
	if err != nil {
		return err
	}
	instruction := &program.Instruction{
		IsAccounts:  signers,
		IsData:      memo,
		IsProgramID: ctx.MemoProgram.Key,
	}
	infos := make([]*svm.AccountInfo, 0, len(ctx.RemainingAccounts)+1)
	infos = append(infos, ctx.MemoProgram)
	infos = append(infos, ctx.RemainingAccounts...)
	return ictx.Invoke(instruction, infos)
}

// signerMetas converts the remaining accounts one by one, keeping order and duplicates.
func signerMetas(accounts []*svm.AccountInfo) ([]*solana.AccountMeta, error) {
	metas := make([]*solana.AccountMeta, 0, len(accounts))
	for _, account := range accounts {
		if account == nil {
			return nil, svm.ErrNotEnoughAccountKeys
		}
		metas = append(metas, &solana.AccountMeta{
			PublicKey:  account.Key,
			IsSigner:   true,
			IsWritable: false,
		})
	}
	return metas, nil
}
