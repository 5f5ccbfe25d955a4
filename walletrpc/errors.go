// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletrpc

import (
	"errors"

	"github.com/btcsuite/btcd/btcjson"
)

// ErrorKind is the closed set of outcomes of a wallet RPC call that the
// bootstrap distinguishes.  Raw daemon error codes are folded into it at the
// client boundary.
type ErrorKind uint32

const (
	// KindNone means the call succeeded.
	KindNone ErrorKind = iota

	// KindNotEncrypted means the daemon refused walletpassphrase because
	// the wallet has never been encrypted (code -15).
	KindNotEncrypted

	// KindAlreadyUnlocked means the daemon refused walletpassphrase
	// because the wallet is already unlocked (code -17).  Locking the
	// wallet and unlocking it again resets the unlock timeout.
	KindAlreadyUnlocked

	// KindFatal is every other failure, including transport errors.
	KindFatal

	// kindSentinel is used to check all kinds are named in String.
	kindSentinel
)

// String returns a human readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotEncrypted:
		return "wallet not encrypted"
	case KindAlreadyUnlocked:
		return "wallet already unlocked"
	case KindFatal:
		return "fatal"
	}

	return "unknown kind"
}

// Classify maps an error returned by one of the client's calls onto an
// ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	code, ok := Code(err)
	if !ok {
		return KindFatal
	}

	switch code {
	case btcjson.ErrRPCWalletWrongEncState:
		return KindNotEncrypted
	case btcjson.ErrRPCWalletAlreadyUnlocked:
		return KindAlreadyUnlocked
	}

	return KindFatal
}

// Code extracts the daemon's JSON-RPC error code from err.  The boolean is
// false when err did not come from the daemon, e.g. a connection failure.
func Code(err error) (btcjson.RPCErrorCode, bool) {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Code, true
	}

	return 0, false
}
