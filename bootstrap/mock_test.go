// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bootstrap

import (
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/pairwallet/pairwalletd/provision"
	"github.com/stretchr/testify/mock"
)

var (
	errNotEncrypted = &btcjson.RPCError{
		Code:    btcjson.ErrRPCWalletWrongEncState,
		Message: "running with an unencrypted wallet",
	}
	errAlreadyUnlocked = &btcjson.RPCError{
		Code:    btcjson.ErrRPCWalletAlreadyUnlocked,
		Message: "wallet is already unlocked",
	}
	errBadPassphrase = &btcjson.RPCError{
		Code:    btcjson.ErrRPCWalletPassphraseIncorrect,
		Message: "the wallet passphrase entered was incorrect",
	}
)

// mockWallet is a WalletClient whose behaviour is scripted per test.
type mockWallet struct {
	mock.Mock
}

func (m *mockWallet) WalletPassphrase(passphrase string,
	timeoutSecs int64) error {

	args := m.Called(passphrase, timeoutSecs)
	return args.Error(0)
}

func (m *mockWallet) WalletLock() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockWallet) EncryptWallet(passphrase string) error {
	args := m.Called(passphrase)
	return args.Error(0)
}

func (m *mockWallet) GetAddressesByAccount(account string) ([]string,
	error) {

	args := m.Called(account)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockWallet) GetNewAddress(account string) (string, error) {
	args := m.Called(account)
	return args.String(0), args.Error(1)
}

// methods returns the names of the calls made on m, in order.
func (m *mockWallet) methods() []string {
	var names []string
	for _, c := range m.Calls {
		names = append(names, c.Method)
	}
	return names
}

// mockIssuer is a SecretIssuer.
type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) Issue(seed []byte) (string, error) {
	args := m.Called(seed)
	return args.String(0), args.Error(1)
}

// memWallet is an in-memory WalletClient that is always unlocked.
type memWallet struct {
	accounts map[string][]string
	next     int
}

func newMemWallet() *memWallet {
	return &memWallet{accounts: make(map[string][]string)}
}

func (w *memWallet) WalletPassphrase(string, int64) error { return nil }
func (w *memWallet) WalletLock() error                    { return nil }
func (w *memWallet) EncryptWallet(string) error           { return nil }

func (w *memWallet) GetAddressesByAccount(account string) ([]string, error) {
	return append([]string(nil), w.accounts[account]...), nil
}

func (w *memWallet) GetNewAddress(account string) (string, error) {
	w.next++
	addr := fmt.Sprintf("addr%d", w.next)
	w.accounts[account] = append(w.accounts[account], addr)
	return addr, nil
}

// provisionCall records one Provisioner invocation.
type provisionCall struct {
	account string
	wallet  provision.Wallet
	max     int
}

// recordingProvisioner returns a Provisioner that records its calls and
// fails on the account/wallet pair given by failOn, if any.
func recordingProvisioner(calls *[]provisionCall,
	failOn *provisionCall) Provisioner {

	return func(account string, w provision.Wallet, max int) error {
		*calls = append(*calls, provisionCall{account, w, max})
		if failOn != nil && failOn.account == account &&
			failOn.wallet == w {

			return fmt.Errorf("pool for %s unavailable", account)
		}
		return nil
	}
}

// recordedEvent is an event captured by memEvents.
type recordedEvent struct {
	code    uint32
	message string
}

// memEvents is an in-memory EventRecorder.
type memEvents struct {
	events []recordedEvent
}

func (e *memEvents) Record(code uint32, message string) error {
	e.events = append(e.events, recordedEvent{code, message})
	return nil
}
