// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bootstrap brings a paired-wallet node from a cold start to a
// provisioned state.
//
// The orchestrator unlocks (encrypting first if needed) the primary and
// secondary wallets, makes sure the day's key pair exists and round-trips the
// probe, tops up the address pools and, on incoming nodes, issues the node
// secret.  Stages run one at a time and the first failure stops the
// bootstrap.  Nothing is rolled back; rerunning is the recovery path and every
// stage is safe to repeat.
package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pairwallet/pairwalletd/eventlog"
	"github.com/pairwallet/pairwalletd/internal/zero"
	"github.com/pairwallet/pairwalletd/keypair"
	"github.com/pairwallet/pairwalletd/provision"
	"github.com/pairwallet/pairwalletd/secret"
	"github.com/pairwallet/pairwalletd/walletrpc"
)

// DefaultMaxUnlockAttempts is the number of unlock calls made per wallet
// before giving up.
const DefaultMaxUnlockAttempts = 10

// WalletClient is the RPC surface of one wallet daemon.  It is implemented
// by *walletrpc.Client.
type WalletClient interface {
	provision.Wallet

	WalletPassphrase(passphrase string, timeoutSecs int64) error
	WalletLock() error
	EncryptWallet(passphrase string) error
}

// Wallet is one of the two daemons a node pairs.
type Wallet struct {
	Name          string
	Client        WalletClient
	Passphrase    string
	UnlockTimeout int64
}

// KeyPairs creates and verifies the day's key pair.  It is implemented by
// *keypair.Manager.
type KeyPairs interface {
	Ensure(bits int) (*keypair.Record, error)
}

// Provisioner tops up the address pool of account.  provision.Provision is
// the default.
type Provisioner func(account string, w provision.Wallet, max int) error

// SecretIssuer derives the node secret from a seed.  It is implemented by
// *secret.Issuer.
type SecretIssuer interface {
	Issue(seed []byte) (string, error)
}

// EventRecorder persists failure codes.  It is implemented by
// *eventlog.Store and eventlog.LogRecorder.
type EventRecorder interface {
	Record(code uint32, message string) error
}

// Config holds everything a bootstrap run needs.  It is not modified after
// New.
type Config struct {
	Role Role

	// UseEncryption enables the unlock stages.  When false the wallets
	// are assumed to be usable as they are.
	UseEncryption bool

	// MaxUnlockAttempts caps the unlock calls per wallet.  Zero removes
	// the cap.
	MaxUnlockAttempts int

	Primary   *Wallet
	Secondary *Wallet

	KeyBits  int
	KeyPairs KeyPairs

	RegularAccount      string
	HoldingAccount      string
	MaxAddresses        int
	MaxHoldingAddresses int

	// Provision defaults to provision.Provision.
	Provision Provisioner

	// Secrets is only used, and required, by incoming nodes.
	Secrets SecretIssuer

	// NewSeed defaults to secret.NewSeed.
	NewSeed func() ([]byte, error)

	// Events defaults to eventlog.LogRecorder.
	Events EventRecorder

	// Out receives the operator facing STATUS, ERROR and SUCCESS lines.
	// It defaults to os.Stdout.
	Out io.Writer
}

// Orchestrator runs the bootstrap state machine.
type Orchestrator struct {
	cfg Config
}

// New validates cfg and returns an Orchestrator for it.
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, bootstrapError(StageInit, ErrConfig,
			"missing bootstrap config", nil)
	}

	c := *cfg
	if c.Provision == nil {
		c.Provision = provision.Provision
	}
	if c.NewSeed == nil {
		c.NewSeed = secret.NewSeed
	}
	if c.Events == nil {
		c.Events = eventlog.LogRecorder{}
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}

	if err := c.validate(); err != nil {
		return nil, bootstrapError(StageInit, ErrConfig,
			"invalid bootstrap config", err)
	}

	return &Orchestrator{cfg: c}, nil
}

func (c *Config) validate() error {
	switch c.Role {
	case RoleIncoming, RoleOutgoing:
	default:
		return fmt.Errorf("unknown role %d", c.Role)
	}

	for _, w := range []*Wallet{c.Primary, c.Secondary} {
		if w == nil || w.Client == nil {
			return errors.New("both wallets need a client")
		}
		if c.UseEncryption && w.Passphrase == "" {
			return fmt.Errorf("%s wallet: missing passphrase",
				w.Name)
		}
	}

	if c.KeyPairs == nil {
		return errors.New("missing key pair manager")
	}
	if c.KeyBits < keypair.MinKeyBits {
		return fmt.Errorf("key size %d below minimum %d", c.KeyBits,
			keypair.MinKeyBits)
	}

	if c.RegularAccount == "" || c.HoldingAccount == "" {
		return errors.New("regular and holding accounts must be set")
	}
	if c.MaxAddresses < 0 || c.MaxHoldingAddresses < 0 {
		return errors.New("address pool sizes must not be negative")
	}
	if c.MaxUnlockAttempts < 0 {
		return errors.New("max unlock attempts must not be negative")
	}

	if c.Role == RoleIncoming && c.Secrets == nil {
		return errors.New("incoming role needs a secret issuer")
	}

	return nil
}

// Run executes every stage in order and reports the outcome on the
// configured writer.  The returned error, always an *Error, is only useful
// for choosing an exit status.
func (o *Orchestrator) Run() error {
	stage := StageInit
	for stage != StageDone {
		next, err := o.step(stage)
		if err != nil {
			return o.fail(stage, err)
		}

		log.Tracef("Stage %v done, next %v", stage, next)
		stage = next
	}

	fmt.Fprintf(o.cfg.Out, "SUCCESS: %s node bootstrapped\n", o.cfg.Role)
	log.Infof("Bootstrap of %s node complete", o.cfg.Role)

	return nil
}

// step runs a single stage and returns the stage to run next.
func (o *Orchestrator) step(stage Stage) (Stage, error) {
	cfg := &o.cfg

	switch stage {
	case StageInit:
		o.status("bootstrapping %s node", cfg.Role)
		if !cfg.UseEncryption {
			o.status("wallet encryption disabled, skipping unlock")
			return StageKeyPair, nil
		}
		return StageUnlockPrimary, nil

	case StageUnlockPrimary:
		return StageUnlockSecondary, o.unlock(stage, cfg.Primary)

	case StageUnlockSecondary:
		return StageKeyPair, o.unlock(stage, cfg.Secondary)

	case StageKeyPair:
		rec, err := cfg.KeyPairs.Ensure(cfg.KeyBits)
		if err != nil {
			return stage, bootstrapError(stage, ErrKeyPair,
				"key pair unusable", err)
		}
		verb := "reusing"
		if rec.Generated {
			verb = "generated"
		}
		o.status("%s key pair %s, verified", verb,
			rec.Bucket.Format("2006-01-02"))
		return StageProvisionPrimary, nil

	case StageProvisionPrimary:
		err := o.provision(stage, ErrProvisionPrimary, cfg.Primary,
			cfg.RegularAccount, cfg.MaxAddresses)
		return StageProvisionSecondary, err

	case StageProvisionSecondary:
		err := o.provision(stage, ErrProvisionSecondary, cfg.Secondary,
			cfg.RegularAccount, cfg.MaxAddresses)
		return StageProvisionHolding, err

	case StageProvisionHolding:
		holder := cfg.Primary
		next := StageIssueSecret
		if cfg.Role == RoleOutgoing {
			holder = cfg.Secondary
			next = StageDone
		}
		err := o.provision(stage, ErrProvisionHolding, holder,
			cfg.HoldingAccount, cfg.MaxHoldingAddresses)
		return next, err

	case StageIssueSecret:
		return StageDone, o.issueSecret(stage)
	}

	return stage, bootstrapError(stage, ErrConfig,
		fmt.Sprintf("no handler for stage %v", stage), nil)
}

// unlock unlocks w, encrypting or locking the wallet first when the daemon
// reports that is needed.
func (o *Orchestrator) unlock(stage Stage, w *Wallet) error {
	limit := o.cfg.MaxUnlockAttempts
	for attempt := 1; ; attempt++ {
		if limit > 0 && attempt > limit {
			return bootstrapError(stage, ErrUnlockRetriesExhausted,
				fmt.Sprintf("%s wallet not unlocked after %d "+
					"attempts", w.Name, limit), nil)
		}

		err := w.Client.WalletPassphrase(w.Passphrase, w.UnlockTimeout)

		switch walletrpc.Classify(err) {
		case walletrpc.KindNone:
			o.status("%s wallet unlocked", w.Name)
			return nil

		case walletrpc.KindNotEncrypted:
			o.status("%s wallet not encrypted, encrypting", w.Name)
			err := w.Client.EncryptWallet(w.Passphrase)
			if err != nil {
				return bootstrapError(stage, ErrEncrypt,
					fmt.Sprintf("unable to encrypt %s "+
						"wallet, restart the daemon "+
						"and rerun", w.Name), err)
			}

		case walletrpc.KindAlreadyUnlocked:
			o.status("%s wallet already unlocked, locking", w.Name)
			if err := w.Client.WalletLock(); err != nil {
				return bootstrapError(stage, ErrLock,
					fmt.Sprintf("unable to lock %s wallet",
						w.Name), err)
			}

		default:
			return bootstrapError(stage, ErrUnlock,
				fmt.Sprintf("unable to unlock %s wallet",
					w.Name), err)
		}

		log.Debugf("Retrying unlock of %s wallet (attempt %d)", w.Name,
			attempt+1)
	}
}

func (o *Orchestrator) provision(stage Stage, code ErrorCode, w *Wallet,
	account string, size int) error {

	if err := o.cfg.Provision(account, w.Client, size); err != nil {
		return bootstrapError(stage, code,
			fmt.Sprintf("unable to provision account %q on %s "+
				"wallet", account, w.Name), err)
	}

	o.status("account %q on %s wallet provisioned (%d addresses)",
		account, w.Name, size)

	return nil
}

// issueSecret derives the node secret and prints it.  The secret is written
// to the output only, never to the log.
func (o *Orchestrator) issueSecret(stage Stage) error {
	seed, err := o.cfg.NewSeed()
	if err != nil {
		return bootstrapError(stage, ErrIssueSecret,
			"unable to create secret seed", err)
	}
	defer zero.Bytes(seed)

	s, err := o.cfg.Secrets.Issue(seed)
	if err != nil {
		return bootstrapError(stage, ErrIssueSecret,
			"unable to derive secret", err)
	}

	fmt.Fprintf(o.cfg.Out, "SUCCESS: node secret %s\n", s)

	return nil
}

// fail reports a stage failure and returns it as an *Error.
func (o *Orchestrator) fail(stage Stage, err error) error {
	var bErr *Error
	if !errors.As(err, &bErr) {
		bErr = bootstrapError(stage, ErrConfig, "unexpected failure",
			err)
	}

	fmt.Fprintf(o.cfg.Out, "ERROR: %v: %v\n", bErr.Stage, bErr)
	log.Errorf("Bootstrap stopped at %v (%v): %v", bErr.Stage,
		bErr.ErrorCode, bErr)

	rerr := o.cfg.Events.Record(uint32(bErr.ErrorCode), bErr.Error())
	if rerr != nil {
		log.Warnf("Unable to record event %v: %v", bErr.ErrorCode, rerr)
	}

	return bErr
}

func (o *Orchestrator) status(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(o.cfg.Out, "STATUS: %s\n", msg)
	log.Debug(msg)
}
