package program

import "github.com/gagliardetto/solana-go"

var (
	MemoRelay = solana.MustPublicKeyFromBase58("2p1eq5RNKv4MrESEPtA9za96diQnRHxLd48gz33Yq7r4")
	Memo      = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
	System    = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	Loader    = solana.MustPublicKeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111")
)

type Program interface {
	Name() string
	Id() solana.PublicKey
	Start() error
	Stop() error
}
