package svm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	payer  = solana.PublicKey{1}
	user   = solana.PublicKey{2}
	caller = solana.PublicKey{10}
	callee = solana.PublicKey{11}
)

type instruction struct {
	accounts []*solana.AccountMeta
	data     []byte
	program  solana.PublicKey
}

func (i *instruction) Accounts() []*solana.AccountMeta { return i.accounts }
func (i *instruction) ProgramID() solana.PublicKey     { return i.program }
func (i *instruction) Data() ([]byte, error)           { return i.data, nil }

func recordProcessor() Processor {
	return ProcessorFunc(func(ictx *InvokeContext, accounts []*AccountInfo, data []byte) error {
		signers := make([]solana.PublicKey, 0)
		for _, account := range accounts {
			if account.IsSigner {
				signers = append(signers, account.Key)
			}
		}
		ictx.Log("depth %d", ictx.Depth())
		ictx.RecordMemo(data, signers)
		return nil
	})
}

// forwardProcessor invokes callee with the given metas, passing all its own accounts along.
func forwardProcessor(metas []*solana.AccountMeta) Processor {
	return ProcessorFunc(func(ictx *InvokeContext, accounts []*AccountInfo, data []byte) error {
		return ictx.Invoke(&instruction{accounts: metas, data: data, program: callee}, accounts)
	})
}

func TestExecute_FeePayerMustSign(t *testing.T) {
	rt := NewRuntime(nil)
	rt.Register(callee, recordProcessor())
	_, err := rt.Execute(&Transaction{
		FeePayer:     payer,
		Instructions: []solana.Instruction{&instruction{program: callee}},
	})
	assert.ErrorIs(t, err, ErrMissingRequiredSignature)
}

func TestExecute_NoInstructions(t *testing.T) {
	rt := NewRuntime(nil)
	_, err := rt.Execute(&Transaction{FeePayer: payer, Signers: []solana.PublicKey{payer}})
	assert.ErrorIs(t, err, ErrNoInstructions)
}

func TestExecute_ProgramNotFound(t *testing.T) {
	rt := NewRuntime(nil)
	_, err := rt.Execute(&Transaction{
		FeePayer:     payer,
		Instructions: []solana.Instruction{&instruction{program: callee}},
		Signers:      []solana.PublicKey{payer},
	})
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestExecute_SignerMetaWithoutSignature(t *testing.T) {
	rt := NewRuntime(nil)
	rt.Register(callee, recordProcessor())
	_, err := rt.Execute(&Transaction{
		FeePayer: payer,
		Instructions: []solana.Instruction{&instruction{
			accounts: []*solana.AccountMeta{{PublicKey: user, IsSigner: true}},
			program:  callee,
		}},
		Signers: []solana.PublicKey{payer},
	})
	assert.ErrorIs(t, err, ErrMissingRequiredSignature)
}

func TestExecute_Logs(t *testing.T) {
	rt := NewRuntime(nil)
	rt.Register(callee, recordProcessor())
	receipt, err := rt.Execute(&Transaction{
		FeePayer:     payer,
		Instructions: []solana.Instruction{&instruction{program: callee, data: []byte("x")}},
		Signers:      []solana.PublicKey{payer},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Program " + callee.String() + " invoke [1]",
		"Program log: depth 1",
		"Program " + callee.String() + " success",
	}, receipt.Logs)
	require.Len(t, receipt.Memos, 1)
	assert.Equal(t, callee, receipt.Memos[0].Program)
}

func TestInvoke_ForwardsSigner(t *testing.T) {
	rt := NewRuntime(nil)
	rt.Register(callee, recordProcessor())
	rt.Register(caller, forwardProcessor([]*solana.AccountMeta{{PublicKey: user, IsSigner: true}}))
	receipt, err := rt.Execute(&Transaction{
		FeePayer: payer,
		Instructions: []solana.Instruction{&instruction{
			accounts: []*solana.AccountMeta{{PublicKey: callee}, {PublicKey: user, IsSigner: true}},
			program:  caller,
		}},
		Signers: []solana.PublicKey{payer, user},
	})
	require.NoError(t, err)
	require.Len(t, receipt.Memos, 1)
	assert.Equal(t, []solana.PublicKey{user}, receipt.Memos[0].Signers)
	assert.Contains(t, receipt.Logs, "Program log: depth 2")
}

func TestInvoke_PrivilegeEscalation(t *testing.T) {
	for name, meta := range map[string]*solana.AccountMeta{
		"signer":   {PublicKey: user, IsSigner: true},
		"writable": {PublicKey: user, IsWritable: true},
	} {
		t.Run(name, func(t *testing.T) {
			rt := NewRuntime(nil)
			rt.Register(callee, recordProcessor())
			rt.Register(caller, forwardProcessor([]*solana.AccountMeta{meta}))
			receipt, err := rt.Execute(&Transaction{
				FeePayer: payer,
				Instructions: []solana.Instruction{&instruction{
					accounts: []*solana.AccountMeta{{PublicKey: callee}, {PublicKey: user}},
					program:  caller,
				}},
				Signers: []solana.PublicKey{payer},
			})
			assert.ErrorIs(t, err, ErrPrivilegeEscalation)
			assert.Empty(t, receipt.Memos)
		})
	}
}

func TestInvoke_MissingAccount(t *testing.T) {
	rt := NewRuntime(nil)
	rt.Register(callee, recordProcessor())
	rt.Register(caller, forwardProcessor([]*solana.AccountMeta{{PublicKey: user}}))
	_, err := rt.Execute(&Transaction{
		FeePayer: payer,
		Instructions: []solana.Instruction{&instruction{
			accounts: []*solana.AccountMeta{{PublicKey: callee}},
			program:  caller,
		}},
		Signers: []solana.PublicKey{payer},
	})
	assert.ErrorIs(t, err, ErrMissingAccount)
}

func TestInvoke_ProgramAccountRequired(t *testing.T) {
	rt := NewRuntime(nil)
	rt.Register(callee, recordProcessor())
	rt.Register(caller, forwardProcessor(nil))
	_, err := rt.Execute(&Transaction{
		FeePayer:     payer,
		Instructions: []solana.Instruction{&instruction{program: caller}},
		Signers:      []solana.PublicKey{payer},
	})
	assert.ErrorIs(t, err, ErrMissingAccount)
}

func TestInvoke_CallDepth(t *testing.T) {
	rt := NewRuntime(nil)
	depth := 0
	// callee keeps invoking itself until the runtime refuses
	rt.Register(callee, ProcessorFunc(func(ictx *InvokeContext, accounts []*AccountInfo, data []byte) error {
		depth = ictx.Depth()
		return ictx.Invoke(&instruction{accounts: []*solana.AccountMeta{{PublicKey: callee}}, program: callee}, accounts)
	}))
	_, err := rt.Execute(&Transaction{
		FeePayer: payer,
		Instructions: []solana.Instruction{&instruction{
			accounts: []*solana.AccountMeta{{PublicKey: callee}},
			program:  callee,
		}},
		Signers: []solana.PublicKey{payer},
	})
	assert.ErrorIs(t, err, ErrCallDepth)
	assert.Equal(t, MaxInvokeDepth, depth)
}
