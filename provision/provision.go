// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package provision tops up wallet address pools.
package provision

import (
	"errors"
	"fmt"
)

// ErrPoolShort is returned when an account still holds fewer addresses than
// requested after provisioning.
var ErrPoolShort = errors.New("address pool below requested size")

// Wallet is the part of a wallet RPC client needed to manage an address
// pool.
type Wallet interface {
	// GetAddressesByAccount returns every receiving address of account.
	GetAddressesByAccount(account string) ([]string, error)

	// GetNewAddress creates a receiving address in account.
	GetNewAddress(account string) (string, error)
}

// Provision makes sure account in w holds at least max addresses, creating
// only the missing ones.  Existing addresses are never removed, so calling
// it again with the same arguments does nothing.
func Provision(account string, w Wallet, max int) error {
	if max < 0 {
		return fmt.Errorf("invalid pool size %d", max)
	}

	addrs, err := w.GetAddressesByAccount(account)
	if err != nil {
		return fmt.Errorf("unable to list addresses of account %q: %w",
			account, err)
	}

	have := len(addrs)
	if have >= max {
		log.Debugf("Account %q already holds %d/%d addresses", account,
			have, max)
		return nil
	}

	log.Infof("Adding %d addresses to account %q", max-have, account)

	for i := have; i < max; i++ {
		if _, err := w.GetNewAddress(account); err != nil {
			return fmt.Errorf("unable to create address %d of "+
				"account %q: %w", i+1, account, err)
		}
	}

	addrs, err = w.GetAddressesByAccount(account)
	if err != nil {
		return fmt.Errorf("unable to list addresses of account %q: %w",
			account, err)
	}
	if len(addrs) < max {
		return fmt.Errorf("%w: account %q holds %d of %d",
			ErrPoolShort, account, len(addrs), max)
	}

	return nil
}
