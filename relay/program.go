package relay

import (
	"github.com/egaotan/anchor-memo/program"
	"github.com/egaotan/anchor-memo/svm"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

var _ program.Program = (*Program)(nil)

type Program struct {
	logger *zap.SugaredLogger
	id     solana.PublicKey
}

func NewProgram(id solana.PublicKey, logger *zap.SugaredLogger) *Program {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	p := &Program{
		logger: logger,
		id:     id,
	}
	return p
}

func (p *Program) Name() string {
	return "memo relay"
}

func (p *Program) Id() solana.PublicKey {
	return p.id
}

func (p *Program) Start() error {
	p.logger.Infof("start memo relay program: %s......", p.Id())
	return nil
}

func (p *Program) Stop() error {
	p.logger.Infof("stop memo relay program......")
	return nil
}

// InstructionSendMemo builds a send_memo call. signers are appended after the
// declared accounts and must sign the transaction too.
func (p *Program) InstructionSendMemo(payer solana.PublicKey, signers []solana.PublicKey, memo string) (solana.Instruction, error) {
	data, err := EncodeSendMemo(memo)
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: program.Memo, IsSigner: false, IsWritable: false},
	}
	for _, signer := range signers {
		accounts = append(accounts, &solana.AccountMeta{PublicKey: signer, IsSigner: true, IsWritable: false})
	}
	instruction := &program.Instruction{
		IsAccounts:  accounts,
		IsData:      data,
		IsProgramID: p.id,
	}
	return instruction, nil
}

func (p *Program) Process(ictx *svm.InvokeContext, accounts []*svm.AccountInfo, data []byte) error {
	args, err := DecodeSendMemo(data)
	if err != nil {
		return err
	}
	ictx.Log("Instruction: SendMemo")
	ctx, err := TryAccounts(accounts)
	if err != nil {
		return err
	}
	return SendMemo(ictx, ctx, []byte(args.Memo))
}
