package program

import (
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
)

const DiscriminatorSize = 8

type Instruction struct {
	IsAccounts  []*solana.AccountMeta
	IsData      []byte
	IsProgramID solana.PublicKey
}

func (i *Instruction) Accounts() []*solana.AccountMeta {
	return i.IsAccounts
}

func (i *Instruction) ProgramID() solana.PublicKey {
	return i.IsProgramID
}

func (i *Instruction) Data() ([]byte, error) {
	return i.IsData, nil
}

// Discriminator is the anchor instruction selector: sha256("global:<name>")[:8].
func Discriminator(name string) [DiscriminatorSize]byte {
	var d [DiscriminatorSize]byte
	sum := sha256.Sum256([]byte("global:" + name))
	copy(d[:], sum[:DiscriminatorSize])
	return d
}
