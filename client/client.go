package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/egaotan/anchor-memo/config"
	"github.com/egaotan/anchor-memo/memo"
	"github.com/egaotan/anchor-memo/program"
	"github.com/egaotan/anchor-memo/relay"
	"github.com/egaotan/anchor-memo/store"
	"github.com/egaotan/anchor-memo/svm"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MaxMemoLength        = 280
	LamportsPerSignature = 5000
)

// lamports are 1e-9 SOL
var solExp = int32(-9)

type Recorder interface {
	StoreSentMemo(sent *store.SentMemo)
}

type Receipt struct {
	Signature solana.Signature
	URL       string
	Fee       decimal.Decimal
	Signers   []solana.PublicKey
}

// Client sends send_memo transactions for one payer and a fixed set of cosigners.
type Client struct {
	logger        *zap.SugaredLogger
	chain         Chain
	relay         *relay.Program
	runtime       *svm.Runtime
	lock          sync.Mutex
	wallets       []*Wallet
	player        solana.PublicKey
	cosigners     []solana.PublicKey
	cluster       string
	maxMemoLength int
	preflight     bool
	store         Recorder
}

func NewClient(chain Chain, relayProgram solana.PublicKey, cluster string, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	relayer := relay.NewProgram(relayProgram, logger)
	memoProgram := memo.NewProgram(logger)
	runtime := svm.NewRuntime(logger)
	for _, p := range []interface {
		program.Program
		svm.Processor
	}{relayer, memoProgram} {
		runtime.Register(p.Id(), p)
		p.Start()
	}
	return &Client{
		logger:        logger,
		chain:         chain,
		relay:         relayer,
		runtime:       runtime,
		cluster:       cluster,
		maxMemoLength: MaxMemoLength,
	}
}

func (c *Client) SetStore(store Recorder) {
	c.store = store
}

// SetMaxMemoLength bounds memo size in bytes, 0 disables the check.
func (c *Client) SetMaxMemoLength(n int) {
	c.maxMemoLength = n
}

// SetPreflight makes SendMemo execute every transaction locally before sending it.
func (c *Client) SetPreflight(preflight bool) {
	c.preflight = preflight
}

func (c *Client) Player() solana.PublicKey {
	return c.player
}

func (c *Client) Validate(memo string) error {
	if strings.TrimSpace(memo) == "" {
		return ErrEmptyMemo
	}
	if !utf8.ValidString(memo) {
		return errors.Wrap(svm.ErrInvalidInstructionData, "memo is not utf-8")
	}
	if c.maxMemoLength > 0 && len(memo) > c.maxMemoLength {
		return errors.Wrapf(ErrMemoTooLong, "%d bytes, limit %d", len(memo), c.maxMemoLength)
	}
	if c.player == (solana.PublicKey{}) {
		return ErrNoWallet
	}
	return nil
}

func (c *Client) signers() []solana.PublicKey {
	c.lock.Lock()
	defer c.lock.Unlock()
	signers := make([]solana.PublicKey, 0, len(c.cosigners))
	return append(signers, c.cosigners...)
}

// Simulate runs send_memo against the local relay and memo programs.
func (c *Client) Simulate(memo string) (*svm.Receipt, error) {
	if err := c.Validate(memo); err != nil {
		return nil, err
	}
	cosigners := c.signers()
	ins, err := c.relay.InstructionSendMemo(c.player, cosigners, memo)
	if err != nil {
		return nil, err
	}
	return c.runtime.Execute(&svm.Transaction{
		FeePayer:     c.player,
		Instructions: []solana.Instruction{ins},
		Signers:      append([]solana.PublicKey{c.player}, cosigners...),
	})
}

func (c *Client) SendMemo(ctx context.Context, memo string) (*Receipt, error) {
	sent := &store.SentMemo{
		Payer:    c.player.String(),
		Memo:     memo,
		SendTime: uint64(time.Now().UnixNano() / time.Microsecond.Nanoseconds()),
	}
	receipt, err := c.sendMemo(ctx, memo, sent)
	sent.ResponseTime = uint64(time.Now().UnixNano() / time.Microsecond.Nanoseconds())
	if err != nil {
		err = Classify(err)
		sent.Status = store.StatusFailed
		sent.Error = err.Error()
		c.logger.Infof("send memo err: %s", err)
	} else {
		sent.Status = store.StatusSent
		sent.Signature = receipt.Signature.String()
		sent.Fee = receipt.Fee.String()
		c.logger.Infof("send memo: %s, url: %s", receipt.Signature, receipt.URL)
	}
	if c.store != nil {
		c.store.StoreSentMemo(sent)
	}
	return receipt, err
}

func (c *Client) sendMemo(ctx context.Context, memo string, sent *store.SentMemo) (*Receipt, error) {
	if err := c.Validate(memo); err != nil {
		return nil, err
	}
	cosigners := c.signers()
	sent.Signers = joinKeys(cosigners)
	if c.preflight {
		result, err := c.Simulate(memo)
		if err != nil {
			if result != nil {
				c.logger.Infof("preflight logs: %s", strings.Join(result.Logs, "; "))
			}
			return nil, errors.Wrap(err, "preflight")
		}
	}
	ins, err := c.relay.InstructionSendMemo(c.player, cosigners, memo)
	if err != nil {
		return nil, err
	}
	blockHash, err := c.chain.RecentBlockhash(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get recent block hash")
	}
	builder := solana.NewTransactionBuilder()
	builder.AddInstruction(ins)
	builder.SetRecentBlockHash(blockHash)
	builder.SetFeePayer(c.player)
	trx, err := builder.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build transaction")
	}
	c.lock.Lock()
	_, err = trx.Sign(c.getWallet)
	c.lock.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}
	signature, err := c.chain.SendTransaction(ctx, trx)
	if err != nil {
		return nil, errors.Wrap(err, "send transaction")
	}
	receipt := &Receipt{
		Signature: signature,
		URL:       ExplorerURL(signature, c.cluster),
		Fee:       Fee(len(trx.Signatures)),
		Signers:   cosigners,
	}
	return receipt, nil
}

// Fee is the base fee in SOL for a transaction carrying n signatures.
func Fee(n int) decimal.Decimal {
	return decimal.New(int64(n)*LamportsPerSignature, solExp)
}

func ExplorerURL(signature solana.Signature, cluster string) string {
	url := fmt.Sprintf("%s/tx/%s", config.ExplorerURL, signature)
	if cluster == "" || cluster == "mainnet-beta" {
		return url
	}
	return url + "?cluster=" + cluster
}

func joinKeys(keys []solana.PublicKey) string {
	items := make([]string, 0, len(keys))
	for _, key := range keys {
		items = append(items, key.String())
	}
	return strings.Join(items, ",")
}
