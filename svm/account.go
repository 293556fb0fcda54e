package svm

import "github.com/gagliardetto/solana-go"

type AccountInfo struct {
	Key        solana.PublicKey
	Owner      solana.PublicKey
	Lamports   uint64
	Executable bool
	IsSigner   bool
	IsWritable bool
}

func (a *AccountInfo) Clone() *AccountInfo {
	c := *a
	return &c
}

func findAccount(accounts []*AccountInfo, key solana.PublicKey) *AccountInfo {
	for _, account := range accounts {
		if account != nil && account.Key == key {
			return account
		}
	}
	return nil
}
