// Copyright (c) 2015 The btcsuite developers
// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zero contains functions to clear passphrases and private key
// material from memory once the node no longer needs them.
package zero

import (
	"crypto/rsa"
	"math/big"
)

// Bytes sets all bytes in the passed slice to zero.
func Bytes(b []byte) {
	z := [32]byte{}
	n := uint(copy(b, z[:]))
	for n < uint(len(b)) {
		copy(b[n:], b[:n])
		n <<= 1
	}
}

// BigInt sets all words of the passed big int to zero and then sets the
// value to 0.  Simply setting the value would leave the old words in the
// backing array.
func BigInt(x *big.Int) {
	if x == nil {
		return
	}
	b := x.Bits()
	z := [16]big.Word{}
	n := uint(copy(b, z[:]))
	for n < uint(len(b)) {
		copy(b[n:], b[:n])
		n <<= 1
	}
	x.SetInt64(0)
}

// RSAPrivateKey clears the private exponent, the primes and the CRT values
// of the passed key.  The key is unusable afterwards.
func RSAPrivateKey(k *rsa.PrivateKey) {
	if k == nil {
		return
	}
	BigInt(k.D)
	for _, p := range k.Primes {
		BigInt(p)
	}
	BigInt(k.Precomputed.Dp)
	BigInt(k.Precomputed.Dq)
	BigInt(k.Precomputed.Qinv)
}
