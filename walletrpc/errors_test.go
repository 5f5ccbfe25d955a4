// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletrpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/stretchr/testify/require"
)

// TestErrorKindStringer tests the stringized output for the ErrorKind type.
func TestErrorKindStringer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   ErrorKind
		want string
	}{
		{KindNone, "none"},
		{KindNotEncrypted, "wallet not encrypted"},
		{KindAlreadyUnlocked, "wallet already unlocked"},
		{KindFatal, "fatal"},
		{0xffff, "unknown kind"},
	}

	// Detect additional kinds that don't have the stringer added.
	require.Equal(t, int(kindSentinel), len(tests)-1,
		"it appears an error kind was added without adding an "+
			"associated stringer test")

	for _, test := range tests {
		require.Equal(t, test.want, test.in.String())
	}
}

// TestClassify checks classification of wrapped and bare errors.
func TestClassify(t *testing.T) {
	t.Parallel()

	require.Equal(t, KindNone, Classify(nil))
	require.Equal(t, KindFatal, Classify(errors.New("eof")))

	wrapped := fmt.Errorf("unlock: %w", &btcjson.RPCError{
		Code: btcjson.ErrRPCWalletAlreadyUnlocked,
	})
	require.Equal(t, KindAlreadyUnlocked, Classify(wrapped))

	code, ok := Code(wrapped)
	require.True(t, ok)
	require.Equal(t, btcjson.ErrRPCWalletAlreadyUnlocked, code)
}
