package memo

import (
	"unicode/utf8"

	"github.com/egaotan/anchor-memo/program"
	"github.com/egaotan/anchor-memo/svm"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Program is the SPL Memo program: it logs a UTF-8 memo and requires every
// account passed to it to have signed.
var _ program.Program = (*Program)(nil)

type Program struct {
	logger *zap.SugaredLogger
	id     solana.PublicKey
}

func NewProgram(logger *zap.SugaredLogger) *Program {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	p := &Program{
		logger: logger,
		id:     program.Memo,
	}
	return p
}

func (p *Program) Name() string {
	return "spl memo"
}

func (p *Program) Id() solana.PublicKey {
	return p.id
}

func (p *Program) Start() error {
	p.logger.Infof("start spl memo program: %s......", p.Id())
	return nil
}

func (p *Program) Stop() error {
	p.logger.Infof("stop spl memo program......")
	return nil
}

func (p *Program) InstructionMemo(message []byte, signers []solana.PublicKey) solana.Instruction {
	accounts := make([]*solana.AccountMeta, 0, len(signers))
	for _, signer := range signers {
		accounts = append(accounts, &solana.AccountMeta{PublicKey: signer, IsSigner: true, IsWritable: false})
	}
	return &program.Instruction{
		IsAccounts:  accounts,
		IsData:      message,
		IsProgramID: p.id,
	}
}

func (p *Program) Process(ictx *svm.InvokeContext, accounts []*svm.AccountInfo, data []byte) error {
	signers := make([]solana.PublicKey, 0, len(accounts))
	for _, account := range accounts {
		if !account.IsSigner {
			return svm.ErrMissingRequiredSignature
		}
		ictx.Log("Signed by %s", account.Key)
		signers = append(signers, account.Key)
	}
	if !utf8.Valid(data) {
		ictx.Log("Invalid UTF-8, from byte %d", invalidFrom(data))
		return svm.ErrInvalidInstructionData
	}
	ictx.Log("Memo (len %d): %q", len(data), string(data))
	ictx.RecordMemo(data, signers)
	return nil
}

func invalidFrom(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
