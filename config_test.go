// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"testing"

	"github.com/kelseyhightower/envconfig"
	"github.com/pairwallet/pairwalletd/bootstrap"
	"github.com/stretchr/testify/require"
)

// validConfig returns a config that passes validation for role.
func validConfig(t *testing.T, role string) config {
	t.Helper()

	cfg := defaultConfig()
	cfg.AppDataDir.Value = t.TempDir()
	cfg.Role = role
	cfg.IncomingPrimary.RPCConnect = "127.0.0.1"
	cfg.IncomingSecondary.RPCConnect = "127.0.0.1:18332"
	cfg.OutgoingPrimary.RPCConnect = "10.0.0.1"
	cfg.OutgoingSecondary.RPCConnect = "10.0.0.2"
	cfg.IncomingSecret.Salt = "salt"

	return cfg
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig(t, "Incoming")
	require.NoError(t, cfg.validate())

	require.Equal(t, bootstrap.RoleIncoming, cfg.role)
	require.True(t, cfg.EncryptWallets)

	primary, secondary := cfg.wallets()
	require.Equal(t, "127.0.0.1:8332", primary.RPCConnect)
	require.Equal(t, "127.0.0.1:18332", secondary.RPCConnect)
	require.EqualValues(t, defaultUnlockTimeout, primary.UnlockTimeout)
	require.Equal(t, defaultKeyBits, cfg.keyBits())

	keyDir := filepath.Join(cfg.AppDataDir.Value, defaultKeyDirname)
	require.Equal(t, filepath.Join(keyDir, "private-"),
		cfg.KeyPair.PrivatePrefix)
	require.Equal(t, filepath.Join(keyDir, "public-"),
		cfg.KeyPair.PublicPrefix)
}

func TestValidateOutgoing(t *testing.T) {
	cfg := validConfig(t, "outgoing")
	cfg.IncomingSecret.Salt = ""
	cfg.IncomingPrimary.RPCConnect = ""
	cfg.KeyPair.OutgoingBits = 4096
	cfg.NoEncryptWallets = true
	require.NoError(t, cfg.validate())

	require.Equal(t, bootstrap.RoleOutgoing, cfg.role)
	require.False(t, cfg.EncryptWallets)
	require.Equal(t, 4096, cfg.keyBits())

	primary, _ := cfg.wallets()
	require.Equal(t, "10.0.0.1:8332", primary.RPCConnect)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		mutate func(*config)
	}{{
		name:   "bad role",
		role:   "sideways",
		mutate: func(*config) {},
	}, {
		name:   "missing rpcconnect",
		role:   "incoming",
		mutate: func(c *config) { c.IncomingSecondary.RPCConnect = "" },
	}, {
		name: "same daemon",
		role: "outgoing",
		mutate: func(c *config) {
			c.OutgoingSecondary.RPCConnect = "10.0.0.1:8332"
		},
	}, {
		name:   "tls without cafile",
		role:   "incoming",
		mutate: func(c *config) { c.IncomingPrimary.EnableTLS = true },
	}, {
		name:   "zero unlock timeout",
		role:   "incoming",
		mutate: func(c *config) { c.IncomingPrimary.UnlockTimeout = 0 },
	}, {
		name:   "small key",
		role:   "incoming",
		mutate: func(c *config) { c.KeyPair.IncomingBits = 512 },
	}, {
		name: "same key prefix",
		role: "incoming",
		mutate: func(c *config) {
			c.KeyPair.PrivatePrefix = "/keys/k-"
			c.KeyPair.PublicPrefix = "/keys/k-"
		},
	}, {
		name:   "missing account",
		role:   "incoming",
		mutate: func(c *config) { c.Accounts.Holding = "" },
	}, {
		name:   "negative pool",
		role:   "incoming",
		mutate: func(c *config) { c.Accounts.MaxAddresses = -1 },
	}, {
		name:   "negative attempts",
		role:   "incoming",
		mutate: func(c *config) { c.MaxUnlockAttempts = -1 },
	}, {
		name:   "missing salt",
		role:   "incoming",
		mutate: func(c *config) { c.IncomingSecret.Salt = "" },
	}, {
		name:   "cost out of range",
		role:   "incoming",
		mutate: func(c *config) { c.IncomingSecret.Cost = 30 },
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := validConfig(t, test.role)
			test.mutate(&cfg)
			require.Error(t, cfg.validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PAIRWALLETD_INCOMING_PRIMARY_PASSPHRASE", "from-env")
	t.Setenv("PAIRWALLETD_INCOMING_SECONDARY_PASSPHRASE", "ignored")
	t.Setenv("PAIRWALLETD_SECRET_SALT", "env-salt")
	t.Setenv("PAIRWALLETD_EVENTLOG_DSN", "sqlite:///tmp/events.db")

	var env envSecrets
	require.NoError(t, envconfig.Process(envPrefix, &env))

	cfg := defaultConfig()
	cfg.IncomingSecondary.Passphrase = "from-flags"
	cfg.applyEnv(&env)

	require.Equal(t, "from-env", cfg.IncomingPrimary.Passphrase)
	require.Equal(t, "from-flags", cfg.IncomingSecondary.Passphrase)
	require.Equal(t, "env-salt", cfg.IncomingSecret.Salt)
	require.Equal(t, "sqlite:///tmp/events.db", cfg.EventLog.DSN)
	require.Empty(t, cfg.OutgoingPrimary.Password)
}

func TestExpandPrefix(t *testing.T) {
	t.Setenv("PWTEST_KEYS", "/srv/keys")

	require.Equal(t, "/srv/keys/private-",
		expandPrefix("$PWTEST_KEYS/private-"))
	require.Equal(t, "/srv/keys/", expandPrefix("$PWTEST_KEYS/"))
}

func TestParseAndSetDebugLevels(t *testing.T) {
	require.NoError(t, parseAndSetDebugLevels("debug"))
	require.NoError(t, parseAndSetDebugLevels("BOOT=trace,WRPC=warn"))

	require.Error(t, parseAndSetDebugLevels("loud"))
	require.Error(t, parseAndSetDebugLevels("BOOT=trace,XXXX=info"))
	require.Error(t, parseAndSetDebugLevels("BOOT=loud,"))
	require.Error(t, parseAndSetDebugLevels("BOOT=trace=debug,"))

	setLogLevels(defaultLogLevel)
}

func TestVersion(t *testing.T) {
	require.Equal(t, "0.3.0-beta", version())
	require.Equal(t, "abc-1", normalizeVerString("abc-1!?"))
}
