// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package secret derives the node's one-time secret from a random seed with
// scrypt.
package secret

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	// MinCost and MaxCost bound the log2 of the scrypt work factor N.
	MinCost = 10
	MaxCost = 20

	// DefaultCost is used when no cost is configured.
	DefaultCost = 14

	// SeedLen is the size of seeds returned by NewSeed.
	SeedLen = 32

	scryptR = 8
	scryptP = 1
	keyLen  = 32
)

var (
	// ErrEmptySalt is returned by NewIssuer when no salt is given.
	ErrEmptySalt = errors.New("secret salt must not be empty")

	// ErrEmptySeed is returned by Issue for an empty seed.
	ErrEmptySeed = errors.New("secret seed must not be empty")
)

// Issuer derives secrets from seeds using a fixed salt and cost.
type Issuer struct {
	salt []byte
	cost uint8
}

// NewIssuer returns an Issuer for salt and cost.
func NewIssuer(salt string, cost uint8) (*Issuer, error) {
	if salt == "" {
		return nil, ErrEmptySalt
	}
	if cost < MinCost || cost > MaxCost {
		return nil, fmt.Errorf("secret cost %d outside [%d, %d]", cost,
			MinCost, MaxCost)
	}

	return &Issuer{
		salt: []byte(salt),
		cost: cost,
	}, nil
}

// Issue derives the hex encoded secret of seed.  The same seed, salt and
// cost always give the same secret.
func (i *Issuer) Issue(seed []byte) (string, error) {
	if len(seed) == 0 {
		return "", ErrEmptySeed
	}

	log.Debugf("Deriving secret (cost %d)", i.cost)

	key, err := scrypt.Key(seed, i.salt, 1<<i.cost, scryptR, scryptP,
		keyLen)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(key), nil
}

// NewSeed returns SeedLen random bytes.
func NewSeed() ([]byte, error) {
	seed := make([]byte, SeedLen)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("unable to read random seed: %w", err)
	}

	return seed, nil
}
