// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keypair

import (
	"encoding/hex"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
)

// TestProbeSerialize checks the probe encodes to the same canonical bytes
// every time and fits in a PKCS#1 v1.5 block of the smallest key.
func TestProbeSerialize(t *testing.T) {
	t.Parallel()

	a, err := probe.Serialize()
	require.NoError(t, err)

	b, err := probe.Serialize()
	require.NoError(t, err)
	require.Equal(t, a, b)

	// Map of three entries keyed by the unsigned integers 1, 2 and 3.
	require.Equal(t, "a301", hex.EncodeToString(a[:2]))

	require.LessOrEqual(t, len(a), MinKeyBits/8-11)

	var got Probe
	require.NoError(t, cbor.Unmarshal(a, &got))
	require.Equal(t, probe, got)
}
