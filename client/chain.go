package client

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Chain is the part of a cluster the client talks to.
type Chain interface {
	RecentBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, trx *solana.Transaction) (solana.Signature, error)
}

type rpcChain struct {
	client        *rpc.Client
	skipPreflight bool
}

func NewRPCChain(endpoint string, skipPreflight bool) Chain {
	return &rpcChain{
		client:        rpc.New(endpoint),
		skipPreflight: skipPreflight,
	}
}

func (c *rpcChain) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := c.client.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, err
	}
	return result.Value.Blockhash, nil
}

func (c *rpcChain) SendTransaction(ctx context.Context, trx *solana.Transaction) (solana.Signature, error) {
	return c.client.SendTransactionWithOpts(ctx, trx, c.skipPreflight, rpc.CommitmentFinalized)
}
