// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keypair

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/fxamacker/cbor/v2"
)

// Probe is the fixed payload pushed through a key pair to prove the pair
// can round-trip the node's domain data.  It is never persisted.
type Probe struct {
	Address   string         `cbor:"1,keyasint"`
	Amount    btcutil.Amount `cbor:"2,keyasint"`
	Reference string         `cbor:"3,keyasint"`
}

// probe is the value used by Verify.
var probe = Probe{
	Address:   "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
	Amount:    1234567,
	Reference: "73019264850127364519",
}

// encMode encodes with Core Deterministic Encoding (RFC 8949 4.2) so the
// probe bytes are identical across runs and builds.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("keypair: CBOR encoder initialization failed: " +
			err.Error())
	}
}

// Serialize returns the canonical encoding of p.  The canonical form is
// CBOR Core Deterministic Encoding bytes, not text.
func (p *Probe) Serialize() ([]byte, error) {
	return encMode.Marshal(p)
}
