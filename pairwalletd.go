// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/pairwallet/pairwalletd/bootstrap"
	"github.com/pairwallet/pairwalletd/eventlog"
	"github.com/pairwallet/pairwalletd/internal/prompt"
	"github.com/pairwallet/pairwalletd/internal/zero"
	"github.com/pairwallet/pairwalletd/keypair"
	"github.com/pairwallet/pairwalletd/secret"
	"github.com/pairwallet/pairwalletd/walletrpc"
)

func main() {
	// Work around defer not working after os.Exit.
	if err := walletMain(); err != nil {
		os.Exit(1)
	}
}

// walletMain is a work-around main function that is required since deferred
// functions (such as log flushing) are not called with calls to os.Exit.
// Instead, main runs this function and checks for a non-nil error, at which
// point any defers have already run, and if the error is non-nil, the program
// can be exited with an error exit status.
func walletMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	log.Infof("Version %s, role %s", version(), cfg.role)

	primaryOpts, secondaryOpts := cfg.wallets()
	if cfg.EncryptWallets && cfg.PromptPass {
		for _, w := range []struct {
			name string
			opts *walletOptions
		}{
			{"primary", primaryOpts},
			{"secondary", secondaryOpts},
		} {
			if w.opts.Passphrase != "" {
				continue
			}
			pass, err := prompt.PassPrompt(os.Stdout,
				fmt.Sprintf("Enter the %s wallet passphrase",
					w.name), false)
			if err != nil {
				log.Errorf("Unable to read %s wallet passphrase: %v",
					w.name, err)
				return err
			}
			w.opts.Passphrase = string(pass)
			zero.Bytes(pass)
		}
	}

	primaryClient, err := newClient("primary", primaryOpts)
	if err != nil {
		log.Error(err)
		return err
	}
	defer primaryClient.Shutdown()

	secondaryClient, err := newClient("secondary", secondaryOpts)
	if err != nil {
		log.Error(err)
		return err
	}
	defer secondaryClient.Shutdown()

	keyPairs, err := keypair.New(&keypair.Config{
		PrivateTemplate: cfg.KeyPair.PrivatePrefix,
		PublicTemplate:  cfg.KeyPair.PublicPrefix,
	})
	if err != nil {
		log.Error(err)
		return err
	}

	var events bootstrap.EventRecorder = eventlog.LogRecorder{}
	if cfg.EventLog.DSN != "" {
		store, err := eventlog.Open(cfg.EventLog.DSN)
		if err != nil {
			log.Errorf("Unable to open event log: %v", err)
			return err
		}
		defer store.Close()
		events = store
	}

	bcfg := &bootstrap.Config{
		Role:              cfg.role,
		UseEncryption:     cfg.EncryptWallets,
		MaxUnlockAttempts: cfg.MaxUnlockAttempts,
		Primary: &bootstrap.Wallet{
			Name:          "primary",
			Client:        primaryClient,
			Passphrase:    primaryOpts.Passphrase,
			UnlockTimeout: primaryOpts.UnlockTimeout,
		},
		Secondary: &bootstrap.Wallet{
			Name:          "secondary",
			Client:        secondaryClient,
			Passphrase:    secondaryOpts.Passphrase,
			UnlockTimeout: secondaryOpts.UnlockTimeout,
		},
		KeyBits:             cfg.keyBits(),
		KeyPairs:            keyPairs,
		RegularAccount:      cfg.Accounts.Regular,
		HoldingAccount:      cfg.Accounts.Holding,
		MaxAddresses:        cfg.Accounts.MaxAddresses,
		MaxHoldingAddresses: cfg.Accounts.MaxHoldingAddrs,
		Events:              events,
		Out:                 os.Stdout,
	}
	if cfg.role == bootstrap.RoleIncoming {
		issuer, err := secret.NewIssuer(cfg.IncomingSecret.Salt,
			cfg.IncomingSecret.Cost)
		if err != nil {
			log.Error(err)
			return err
		}
		bcfg.Secrets = issuer
	}

	orchestrator, err := bootstrap.New(bcfg)
	if err != nil {
		log.Error(err)
		return err
	}

	// Failures are reported by the orchestrator itself.
	return orchestrator.Run()
}

// newClient creates the RPC client of one wallet daemon.
func newClient(name string, opts *walletOptions) (*walletrpc.Client, error) {
	var certs []byte
	if opts.EnableTLS {
		var err error
		certs, err = os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("cannot open %s wallet CA file: %w",
				name, err)
		}
	}

	return walletrpc.New(&walletrpc.Config{
		Name:         name,
		Host:         opts.RPCConnect,
		User:         opts.Username,
		Pass:         opts.Password,
		Certificates: certs,
		DisableTLS:   !opts.EnableTLS,
	})
}
