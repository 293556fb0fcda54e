package client

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

type Wallet struct {
	pubkey solana.PublicKey
	prikey solana.PrivateKey
}

func (c *Client) ImportWallet(priKey string) (solana.PublicKey, error) {
	pri, err := solana.PrivateKeyFromBase58(priKey)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "import wallet")
	}
	return c.ImportPrivateKey(pri), nil
}

func (c *Client) ImportPrivateKey(pri solana.PrivateKey) solana.PublicKey {
	pub := pri.PublicKey()
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.wallet(pub) == nil {
		c.wallets = append(c.wallets, &Wallet{pubkey: pub, prikey: pri})
	}
	return pub
}

func (c *Client) wallet(key solana.PublicKey) *Wallet {
	for _, wallet := range c.wallets {
		if wallet.pubkey == key {
			return wallet
		}
	}
	return nil
}

// getWallet is the key getter for solana.Transaction.Sign.
func (c *Client) getWallet(key solana.PublicKey) *solana.PrivateKey {
	wallet := c.wallet(key)
	if wallet == nil {
		return nil
	}
	return &wallet.prikey
}

// SetPlayer sets the fee payer; its wallet must be imported.
func (c *Client) SetPlayer(player solana.PublicKey) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.wallet(player) == nil {
		return errors.Wrapf(ErrNoWallet, "player %s", player)
	}
	c.player = player
	return nil
}

// AddCosigner appends a remaining account that co-signs every memo.
func (c *Client) AddCosigner(cosigner solana.PublicKey) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.wallet(cosigner) == nil {
		return errors.Wrapf(ErrNoWallet, "cosigner %s", cosigner)
	}
	c.cosigners = append(c.cosigners, cosigner)
	return nil
}
