package svm

import (
	"fmt"
	"sync"

	"github.com/badgerodon/collections/stack"
	"github.com/egaotan/anchor-memo/program"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const MaxInvokeDepth = 4

type Processor interface {
	Process(ictx *InvokeContext, accounts []*AccountInfo, data []byte) error
}

type ProcessorFunc func(ictx *InvokeContext, accounts []*AccountInfo, data []byte) error

func (f ProcessorFunc) Process(ictx *InvokeContext, accounts []*AccountInfo, data []byte) error {
	return f(ictx, accounts, data)
}

type Transaction struct {
	FeePayer     solana.PublicKey
	Instructions []solana.Instruction
	Signers      []solana.PublicKey
}

type MemoRecord struct {
	Program solana.PublicKey
	Data    []byte
	Signers []solana.PublicKey
}

type Receipt struct {
	Logs  []string
	Memos []*MemoRecord
}

// Runtime executes transactions against registered program processors.
// Every Execute is atomic: the memos of a failed transaction are dropped.
type Runtime struct {
	lock     sync.Mutex
	programs map[solana.PublicKey]Processor
	accounts map[solana.PublicKey]*AccountInfo
	logger   *zap.SugaredLogger
}

func NewRuntime(logger *zap.SugaredLogger) *Runtime {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runtime{
		programs: make(map[solana.PublicKey]Processor),
		accounts: make(map[solana.PublicKey]*AccountInfo),
		logger:   logger,
	}
}

// Register deploys processor under id, marking the program account executable.
func (rt *Runtime) Register(id solana.PublicKey, processor Processor) {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	rt.programs[id] = processor
	rt.accounts[id] = &AccountInfo{
		Key:        id,
		Owner:      program.Loader,
		Lamports:   1,
		Executable: true,
	}
}

func (rt *Runtime) SetAccount(account *AccountInfo) {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	rt.accounts[account.Key] = account.Clone()
}

// account returns a fresh view of key; unknown keys are empty system accounts.
func (rt *Runtime) account(key solana.PublicKey) *AccountInfo {
	if account, ok := rt.accounts[key]; ok {
		return account.Clone()
	}
	return &AccountInfo{Key: key, Owner: program.System}
}

func (rt *Runtime) Execute(tx *Transaction) (*Receipt, error) {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	receipt := &Receipt{}
	if len(tx.Instructions) == 0 {
		return receipt, ErrNoInstructions
	}
	signers := make(map[solana.PublicKey]bool, len(tx.Signers))
	for _, signer := range tx.Signers {
		signers[signer] = true
	}
	if !signers[tx.FeePayer] {
		return receipt, errors.Wrapf(ErrMissingRequiredSignature, "fee payer %s", tx.FeePayer)
	}
	j := &journal{}
	for i, ins := range tx.Instructions {
		if err := rt.executeInstruction(j, ins, signers); err != nil {
			receipt.Logs = j.logs
			rt.logger.Infof("transaction failed at instruction %d: %s", i, err)
			return receipt, &InstructionError{Index: i, Err: err}
		}
	}
	receipt.Logs = j.logs
	receipt.Memos = j.memos
	rt.logger.Infof("transaction executed, instructions: %d, memos: %d", len(tx.Instructions), len(j.memos))
	return receipt, nil
}

func (rt *Runtime) executeInstruction(j *journal, ins solana.Instruction, signers map[solana.PublicKey]bool) error {
	metas := ins.Accounts()
	infos := make([]*AccountInfo, 0, len(metas))
	for _, meta := range metas {
		if meta.IsSigner && !signers[meta.PublicKey] {
			return errors.Wrapf(ErrMissingRequiredSignature, "account %s", meta.PublicKey)
		}
		info := rt.account(meta.PublicKey)
		info.IsSigner = signers[meta.PublicKey]
		info.IsWritable = meta.IsWritable
		infos = append(infos, info)
	}
	data, err := ins.Data()
	if err != nil {
		return errors.Wrap(ErrInvalidInstructionData, err.Error())
	}
	ictx := &InvokeContext{
		rt:      rt,
		journal: j,
		stack:   stack.New(),
	}
	return ictx.process(ins.ProgramID(), infos, data)
}

type journal struct {
	logs  []string
	memos []*MemoRecord
}

func (j *journal) log(format string, args ...interface{}) {
	j.logs = append(j.logs, fmt.Sprintf(format, args...))
}
