package client

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEmptyMemo         = errors.New("memo is empty")
	ErrMemoTooLong       = errors.New("memo is too long")
	ErrNoWallet          = errors.New("no wallet for payer")
	ErrInsufficientFunds = errors.New("insufficient funds to complete this transaction")
	ErrUserRejected      = errors.New("transaction was rejected by the signer")
	ErrTimeout           = errors.New("transaction timed out")
)

// Classify maps a send error onto one of the exported errors when it is recognised.
// The original message stays in the returned error.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(ErrTimeout, err.Error())
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient funds"),
		strings.Contains(msg, "insufficient lamports"),
		strings.Contains(msg, "found no record of a prior credit"):
		return errors.Wrap(ErrInsufficientFunds, err.Error())
	case strings.Contains(msg, "user rejected"):
		return errors.Wrap(ErrUserRejected, err.Error())
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"), strings.Contains(msg, "blockhash not found"):
		return errors.Wrap(ErrTimeout, err.Error())
	}
	return err
}

// Retriable reports whether sending the same memo again may succeed.
func Retriable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrEmptyMemo), errors.Is(err, ErrMemoTooLong), errors.Is(err, ErrNoWallet), errors.Is(err, ErrInsufficientFunds):
		return false
	}
	return true
}
