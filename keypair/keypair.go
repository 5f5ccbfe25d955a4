// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keypair maintains the node's dated RSA key pair.
//
// One pair exists per UTC day.  Its files are named after a configured path
// prefix followed by the day (YYYYMMDD) and a .pem suffix.  A pair is created
// the first time it is needed on a given day and reused afterwards.  Whether
// fresh or reused, the pair is verified by encrypting a fixed probe with the
// public key and decrypting it with the private key before it is trusted.
package keypair

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/pairwallet/pairwalletd/internal/cfgutil"
	"github.com/pairwallet/pairwalletd/internal/zero"
)

const (
	// MinKeyBits is the smallest accepted modulus size.  The serialized
	// probe must fit in a single PKCS#1 v1.5 block.
	MinKeyBits = 1024

	// dateLayout is the date token inserted between the path prefix and
	// the suffix.
	dateLayout = "20060102"

	// fileSuffix ends every key file name.
	fileSuffix = ".pem"

	privateBlockType = "RSA PRIVATE KEY"
	publicBlockType  = "PUBLIC KEY"
)

var (
	// ErrProbeMismatch is returned when a key pair cannot round-trip the
	// probe.
	ErrProbeMismatch = errors.New("key pair failed probe round trip")

	// ErrKeyTooSmall is returned when asked for a key below MinKeyBits.
	ErrKeyTooSmall = fmt.Errorf("key size must be at least %d bits",
		MinKeyBits)
)

// Config configures a Manager.
type Config struct {
	// PrivateTemplate is the path prefix of private key files.
	PrivateTemplate string

	// PublicTemplate is the path prefix of public key files.  It must
	// differ from PrivateTemplate.
	PublicTemplate string

	// Clock supplies the current time.  The real clock is used when nil.
	Clock clock.Clock
}

// Record describes the key pair of one day.
type Record struct {
	// Bucket is the start of the UTC day the pair belongs to.
	Bucket time.Time

	PrivatePath string
	PublicPath  string

	// Generated is true when the pair was created by the Ensure call that
	// returned the record.
	Generated bool
}

// Manager creates and verifies dated key pairs.
type Manager struct {
	privTemplate string
	pubTemplate  string
	clock        clock.Clock
}

// New returns a Manager for cfg.
func New(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("missing key pair config")
	}
	if cfg.PrivateTemplate == "" || cfg.PublicTemplate == "" {
		return nil, errors.New("key pair path templates must be set")
	}
	if cfg.PrivateTemplate == cfg.PublicTemplate {
		return nil, errors.New("private and public key path templates " +
			"must differ")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewDefaultClock()
	}

	return &Manager{
		privTemplate: cfg.PrivateTemplate,
		pubTemplate:  cfg.PublicTemplate,
		clock:        clk,
	}, nil
}

// Bucket truncates t to the start of its UTC day.
func Bucket(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Paths returns the private and public key file paths of bucket.
func (m *Manager) Paths(bucket time.Time) (string, string) {
	token := Bucket(bucket).Format(dateLayout)
	return m.privTemplate + token + fileSuffix,
		m.pubTemplate + token + fileSuffix
}

// Current returns the record of today's pair without touching the
// filesystem.
func (m *Manager) Current() *Record {
	bucket := Bucket(m.clock.Now())
	priv, pub := m.Paths(bucket)

	return &Record{
		Bucket:      bucket,
		PrivatePath: priv,
		PublicPath:  pub,
	}
}

// Ensure makes sure today's pair exists and verifies it.  A pair with either
// file missing is regenerated as a whole.  A pair that exists but fails
// verification is reported, never replaced.
func (m *Manager) Ensure(bits int) (*Record, error) {
	if bits < MinKeyBits {
		return nil, ErrKeyTooSmall
	}

	rec := m.Current()

	havePriv, err := cfgutil.FileExists(rec.PrivatePath)
	if err != nil {
		return nil, err
	}
	havePub, err := cfgutil.FileExists(rec.PublicPath)
	if err != nil {
		return nil, err
	}

	if !havePriv || !havePub {
		if havePriv != havePub {
			log.Warnf("Incomplete key pair for %s, regenerating",
				rec.Bucket.Format(dateLayout))
		}
		if err := m.generate(rec, bits); err != nil {
			return nil, err
		}
		rec.Generated = true
	}

	if err := m.Verify(rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// generate creates a key pair and writes both files of rec.
func (m *Manager) generate(rec *Record, bits int) error {
	log.Infof("Generating %d-bit key pair for %s", bits,
		rec.Bucket.Format(dateLayout))

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return fmt.Errorf("unable to generate key: %w", err)
	}
	defer zero.RSAPrivateKey(key)

	privDER := x509.MarshalPKCS1PrivateKey(key)
	defer zero.Bytes(privDER)

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return fmt.Errorf("unable to encode public key: %w", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  privateBlockType,
		Bytes: privDER,
	})
	defer zero.Bytes(privPEM)

	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  publicBlockType,
		Bytes: pubDER,
	})

	if err := writeFile(rec.PrivatePath, privPEM); err != nil {
		return err
	}
	return writeFile(rec.PublicPath, pubPEM)
}

// Verify loads the pair of rec and checks it round-trips the probe.
func (m *Manager) Verify(rec *Record) error {
	priv, err := readPrivateKey(rec.PrivatePath)
	if err != nil {
		return err
	}
	defer zero.RSAPrivateKey(priv)

	pub, err := readPublicKey(rec.PublicPath)
	if err != nil {
		return err
	}

	plain, err := probe.Serialize()
	if err != nil {
		return fmt.Errorf("unable to serialize probe: %w", err)
	}

	cipher, err := rsa.EncryptPKCS1v15(rand.Reader, pub, plain)
	if err != nil {
		return fmt.Errorf("%w: encrypt: %v", ErrProbeMismatch, err)
	}

	decrypted, err := rsa.DecryptPKCS1v15(rand.Reader, priv, cipher)
	if err != nil {
		return fmt.Errorf("%w: decrypt: %v", ErrProbeMismatch, err)
	}
	if !bytes.Equal(plain, decrypted) {
		return ErrProbeMismatch
	}

	log.Debugf("Key pair %s verified", rec.Bucket.Format(dateLayout))

	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("unable to create key directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("unable to write key file: %w", err)
	}

	return nil
}

func readPEM(path, blockType string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read key file: %w", err)
	}
	defer zero.Bytes(data)

	block, _ := pem.Decode(data)
	if block == nil || block.Type != blockType {
		return nil, fmt.Errorf("%w: %s is not a %s PEM file",
			ErrProbeMismatch, path, blockType)
	}

	der := make([]byte, len(block.Bytes))
	copy(der, block.Bytes)
	zero.Bytes(block.Bytes)

	return der, nil
}

func readPrivateKey(path string) (*rsa.PrivateKey, error) {
	der, err := readPEM(path, privateBlockType)
	if err != nil {
		return nil, err
	}
	defer zero.Bytes(der)

	key, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProbeMismatch, err)
	}

	return key, nil
}

func readPublicKey(path string) (*rsa.PublicKey, error) {
	der, err := readPEM(path, publicBlockType)
	if err != nil {
		return nil, err
	}

	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProbeMismatch, err)
	}

	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not hold an RSA key",
			ErrProbeMismatch, path)
	}

	return pub, nil
}
