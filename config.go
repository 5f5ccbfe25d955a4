// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
	"github.com/kelseyhightower/envconfig"
	"github.com/pairwallet/pairwalletd/bootstrap"
	"github.com/pairwallet/pairwalletd/internal/cfgutil"
	"github.com/pairwallet/pairwalletd/keypair"
	"github.com/pairwallet/pairwalletd/secret"
)

const (
	defaultConfigFilename   = "pairwalletd.conf"
	defaultLogLevel         = "info"
	defaultLogDirname       = "logs"
	defaultLogFilename      = "pairwalletd.log"
	defaultKeyDirname       = "keys"
	defaultRPCPort          = "8332"
	defaultUnlockTimeout    = 100000000
	defaultKeyBits          = 2048
	defaultRegularAccount   = "regular"
	defaultHoldingAccount   = "holding"
	defaultMaxAddresses     = 100
	defaultMaxHoldingAddrs  = 10
	defaultSecretCost       = secret.DefaultCost
	defaultEncryptWallets   = true
	defaultPrivateKeyPrefix = "private-"
	defaultPublicKeyPrefix  = "public-"

	// envPrefix namespaces the environment variables read for secrets,
	// e.g. PAIRWALLETD_INCOMING_PRIMARY_PASSWORD.
	envPrefix = "pairwalletd"
)

var (
	defaultAppDataDir = btcutil.AppDataDir("pairwalletd", false)
	defaultConfigFile = filepath.Join(defaultAppDataDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(defaultAppDataDir, defaultLogDirname)
)

// walletOptions configures the connection to one wallet daemon.
type walletOptions struct {
	RPCConnect    string `long:"rpcconnect" description:"Hostname/IP and port of the wallet daemon RPC server (default port 8332)"`
	Username      string `long:"username" description:"Username for wallet daemon RPC authentication"`
	Password      string `long:"password" default-mask:"-" description:"Password for wallet daemon RPC authentication"`
	CAFile        string `long:"cafile" description:"File containing root certificates to authenticate TLS connections with the wallet daemon"`
	EnableTLS     bool   `long:"clienttls" description:"Connect to the wallet daemon RPC server over TLS"`
	Passphrase    string `long:"passphrase" default-mask:"-" description:"Wallet encryption passphrase"`
	UnlockTimeout int64  `long:"unlocktimeout" description:"Seconds a wallet stays unlocked after walletpassphrase"`
}

// secretOptions configures the secret issued by incoming nodes.
type secretOptions struct {
	Salt string `long:"salt" default-mask:"-" description:"Salt mixed into the issued secret"`
	Cost uint8  `long:"cost" description:"Log2 of the scrypt work factor (10-20)"`
}

// keyPairOptions configures the dated key pair.
type keyPairOptions struct {
	PrivatePrefix string `long:"privateprefix" description:"Path prefix of private key files; the date and .pem are appended"`
	PublicPrefix  string `long:"publicprefix" description:"Path prefix of public key files; the date and .pem are appended"`
	IncomingBits  int    `long:"incomingbits" description:"RSA key size of incoming nodes"`
	OutgoingBits  int    `long:"outgoingbits" description:"RSA key size of outgoing nodes"`
}

// accountOptions names the wallet accounts and their pool sizes.
type accountOptions struct {
	Regular         string `long:"regular" description:"Account holding deposit addresses"`
	Holding         string `long:"holding" description:"Account holding the holding pool"`
	MaxAddresses    int    `long:"maxaddresses" description:"Size of the deposit address pool of each wallet"`
	MaxHoldingAddrs int    `long:"maxholdingaddresses" description:"Size of the holding address pool"`
}

// eventLogOptions selects where failure events are stored.
type eventLogOptions struct {
	DSN string `long:"dsn" default-mask:"-" description:"Event log database (sqlite://<path> or postgres://...); events are only logged when unset"`
}

type config struct {
	// General application behavior
	ConfigFile        *cfgutil.ExplicitString `short:"C" long:"configfile" description:"Path to configuration file"`
	ShowVersion       bool                    `short:"V" long:"version" description:"Display version information and exit"`
	AppDataDir        *cfgutil.ExplicitString `short:"A" long:"appdata" description:"Application data directory for key files and logs"`
	Role              string                  `long:"role" description:"Node role {incoming, outgoing}"`
	EncryptWallets    bool                    `long:"encryptwallets" description:"Unlock, and encrypt if needed, both wallets before use"`
	NoEncryptWallets  bool                    `long:"noencryptwallets" description:"Use the wallets without unlocking them"`
	MaxUnlockAttempts int                     `long:"maxunlockattempts" description:"Unlock calls per wallet before giving up (0 for no limit)"`
	PromptPass        bool                    `long:"promptpass" description:"Prompt for wallet passphrases that are not configured"`
	DebugLevel        string                  `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	LogDir            string                  `long:"logdir" description:"Directory to log output"`

	IncomingPrimary   walletOptions   `group:"Incoming Primary Wallet" namespace:"incoming.primary"`
	IncomingSecondary walletOptions   `group:"Incoming Secondary Wallet" namespace:"incoming.secondary"`
	IncomingSecret    secretOptions   `group:"Incoming Secret" namespace:"secret"`
	OutgoingPrimary   walletOptions   `group:"Outgoing Primary Wallet" namespace:"outgoing.primary"`
	OutgoingSecondary walletOptions   `group:"Outgoing Secondary Wallet" namespace:"outgoing.secondary"`
	KeyPair           keyPairOptions  `group:"Key Pair" namespace:"keypair"`
	Accounts          accountOptions  `group:"Accounts" namespace:"accounts"`
	EventLog          eventLogOptions `group:"Event Log" namespace:"eventlog"`

	// role is Role parsed by validate.
	role bootstrap.Role
}

// envSecrets are credentials that may be supplied through the environment
// instead of the config file.  They only fill options left empty.
type envSecrets struct {
	IncomingPrimaryPassword     string `envconfig:"INCOMING_PRIMARY_PASSWORD"`
	IncomingPrimaryPassphrase   string `envconfig:"INCOMING_PRIMARY_PASSPHRASE"`
	IncomingSecondaryPassword   string `envconfig:"INCOMING_SECONDARY_PASSWORD"`
	IncomingSecondaryPassphrase string `envconfig:"INCOMING_SECONDARY_PASSPHRASE"`
	OutgoingPrimaryPassword     string `envconfig:"OUTGOING_PRIMARY_PASSWORD"`
	OutgoingPrimaryPassphrase   string `envconfig:"OUTGOING_PRIMARY_PASSPHRASE"`
	OutgoingSecondaryPassword   string `envconfig:"OUTGOING_SECONDARY_PASSWORD"`
	OutgoingSecondaryPassphrase string `envconfig:"OUTGOING_SECONDARY_PASSPHRASE"`
	SecretSalt                  string `envconfig:"SECRET_SALT"`
	EventLogDSN                 string `envconfig:"EVENTLOG_DSN"`
}

func defaultWalletOptions() walletOptions {
	return walletOptions{UnlockTimeout: defaultUnlockTimeout}
}

// defaultConfig returns a config with sane settings for every option.
func defaultConfig() config {
	return config{
		ConfigFile:        cfgutil.NewExplicitString(defaultConfigFile),
		AppDataDir:        cfgutil.NewExplicitString(defaultAppDataDir),
		EncryptWallets:    defaultEncryptWallets,
		MaxUnlockAttempts: bootstrap.DefaultMaxUnlockAttempts,
		DebugLevel:        defaultLogLevel,
		LogDir:            defaultLogDir,
		IncomingPrimary:   defaultWalletOptions(),
		IncomingSecondary: defaultWalletOptions(),
		OutgoingPrimary:   defaultWalletOptions(),
		OutgoingSecondary: defaultWalletOptions(),
		IncomingSecret: secretOptions{
			Cost: defaultSecretCost,
		},
		KeyPair: keyPairOptions{
			IncomingBits: defaultKeyBits,
			OutgoingBits: defaultKeyBits,
		},
		Accounts: accountOptions{
			Regular:         defaultRegularAccount,
			Holding:         defaultHoldingAccount,
			MaxAddresses:    defaultMaxAddresses,
			MaxHoldingAddrs: defaultMaxHoldingAddrs,
		},
	}
}

// cleanAndExpandPath expands environement variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	return cfgutil.ExpandPath(path, filepath.Dir(defaultAppDataDir))
}

// applyEnv fills empty credential options from the environment.
func (cfg *config) applyEnv(env *envSecrets) {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}

	fill(&cfg.IncomingPrimary.Password, env.IncomingPrimaryPassword)
	fill(&cfg.IncomingPrimary.Passphrase, env.IncomingPrimaryPassphrase)
	fill(&cfg.IncomingSecondary.Password, env.IncomingSecondaryPassword)
	fill(&cfg.IncomingSecondary.Passphrase,
		env.IncomingSecondaryPassphrase)
	fill(&cfg.OutgoingPrimary.Password, env.OutgoingPrimaryPassword)
	fill(&cfg.OutgoingPrimary.Passphrase, env.OutgoingPrimaryPassphrase)
	fill(&cfg.OutgoingSecondary.Password, env.OutgoingSecondaryPassword)
	fill(&cfg.OutgoingSecondary.Passphrase,
		env.OutgoingSecondaryPassphrase)
	fill(&cfg.IncomingSecret.Salt, env.SecretSalt)
	fill(&cfg.EventLog.DSN, env.EventLogDSN)
}

// wallets returns the primary and secondary wallet options of the
// configured role.
func (cfg *config) wallets() (*walletOptions, *walletOptions) {
	if cfg.role == bootstrap.RoleOutgoing {
		return &cfg.OutgoingPrimary, &cfg.OutgoingSecondary
	}
	return &cfg.IncomingPrimary, &cfg.IncomingSecondary
}

// keyBits returns the key size of the configured role.
func (cfg *config) keyBits() int {
	if cfg.role == bootstrap.RoleOutgoing {
		return cfg.KeyPair.OutgoingBits
	}
	return cfg.KeyPair.IncomingBits
}

// validate checks option values and fills in values derived from others.
// It does not contact any daemon.
func (cfg *config) validate() error {
	role, err := bootstrap.ParseRole(cfg.Role)
	if err != nil {
		return err
	}
	cfg.role = role

	if cfg.NoEncryptWallets {
		cfg.EncryptWallets = false
	}
	if cfg.MaxUnlockAttempts < 0 {
		return errors.New("maxunlockattempts must not be negative")
	}

	primary, secondary := cfg.wallets()
	for _, w := range []struct {
		name string
		opts *walletOptions
	}{
		{"primary", primary},
		{"secondary", secondary},
	} {
		if w.opts.RPCConnect == "" {
			return fmt.Errorf("%s %s wallet: rpcconnect must be set",
				cfg.role, w.name)
		}
		addr, err := cfgutil.NormalizeAddress(w.opts.RPCConnect,
			defaultRPCPort)
		if err != nil {
			return fmt.Errorf("%s %s wallet: invalid rpcconnect "+
				"address: %w", cfg.role, w.name, err)
		}
		w.opts.RPCConnect = addr
		w.opts.CAFile = cleanAndExpandPath(w.opts.CAFile)

		if w.opts.EnableTLS && w.opts.CAFile == "" {
			return fmt.Errorf("%s %s wallet: clienttls requires "+
				"cafile", cfg.role, w.name)
		}
		if w.opts.UnlockTimeout <= 0 {
			return fmt.Errorf("%s %s wallet: unlocktimeout must be "+
				"positive", cfg.role, w.name)
		}
	}
	if primary.RPCConnect == secondary.RPCConnect {
		return fmt.Errorf("%s wallets: primary and secondary must be "+
			"different daemons", cfg.role)
	}

	if bits := cfg.keyBits(); bits < keypair.MinKeyBits {
		return fmt.Errorf("%s key size %d below minimum %d", cfg.role,
			bits, keypair.MinKeyBits)
	}

	keyDir := filepath.Join(cfg.AppDataDir.Value, defaultKeyDirname)
	if cfg.KeyPair.PrivatePrefix == "" {
		cfg.KeyPair.PrivatePrefix = filepath.Join(keyDir,
			defaultPrivateKeyPrefix)
	}
	if cfg.KeyPair.PublicPrefix == "" {
		cfg.KeyPair.PublicPrefix = filepath.Join(keyDir,
			defaultPublicKeyPrefix)
	}
	cfg.KeyPair.PrivatePrefix = expandPrefix(cfg.KeyPair.PrivatePrefix)
	cfg.KeyPair.PublicPrefix = expandPrefix(cfg.KeyPair.PublicPrefix)
	if cfg.KeyPair.PrivatePrefix == cfg.KeyPair.PublicPrefix {
		return errors.New("privateprefix and publicprefix must differ")
	}

	if cfg.Accounts.Regular == "" || cfg.Accounts.Holding == "" {
		return errors.New("regular and holding accounts must be set")
	}
	if cfg.Accounts.MaxAddresses < 0 || cfg.Accounts.MaxHoldingAddrs < 0 {
		return errors.New("address pool sizes must not be negative")
	}

	if cfg.role == bootstrap.RoleIncoming {
		if cfg.IncomingSecret.Salt == "" {
			return errors.New("incoming nodes need secret.salt")
		}
		if cfg.IncomingSecret.Cost < secret.MinCost ||
			cfg.IncomingSecret.Cost > secret.MaxCost {

			return fmt.Errorf("secret.cost must be between %d and "+
				"%d", secret.MinCost, secret.MaxCost)
		}
	}

	return nil
}

// expandPrefix expands a key path prefix while keeping a trailing separator,
// which filepath.Clean would drop.
func expandPrefix(prefix string) string {
	expanded := cleanAndExpandPath(prefix)
	if strings.HasSuffix(prefix, string(filepath.Separator)) {
		expanded += string(filepath.Separator)
	}
	return expanded
}

// loadConfig initializes and parses the config using a config file, the
// environment and command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//  5. Fill credentials still empty from PAIRWALLETD_* environment variables
//
// The above results in pairwalletd functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options.  Command line options always take
// precedence.
func loadConfig() (*config, []string, error) {
	cfg := defaultConfig()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.Default)
	_, err := preParser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			preParser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	// Show the version and exit if the version flag was specified.
	funcName := "loadConfig"
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version())
		os.Exit(0)
	}

	// If the config file path has not been modified by user, then we'll
	// use the default config file path.  However, if the user has
	// modified their appdata directory, then we'll use the default config
	// file name within that directory.
	configFilePath := preCfg.ConfigFile.Value
	if !preCfg.ConfigFile.ExplicitlySet() &&
		preCfg.AppDataDir.ExplicitlySet() {

		configFilePath = filepath.Join(preCfg.AppDataDir.Value,
			defaultConfigFilename)
	}
	configFilePath = cleanAndExpandPath(configFilePath)

	// Load additional config from file.
	var configFileError error
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(configFilePath)
	if err != nil {
		if _, ok := err.(*os.PathError); !ok {
			fmt.Fprintln(os.Stderr, err)
			parser.WriteHelp(os.Stderr)
			return nil, nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	var env envSecrets
	if err := envconfig.Process(envPrefix, &env); err != nil {
		err := fmt.Errorf("%s: %w", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}
	cfg.applyEnv(&env)

	cfg.AppDataDir.Value = cleanAndExpandPath(cfg.AppDataDir.Value)
	if cfg.LogDir == defaultLogDir && cfg.AppDataDir.ExplicitlySet() {
		cfg.LogDir = filepath.Join(cfg.AppDataDir.Value,
			defaultLogDirname)
	}
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation.  After log rotation has been initialized,
	// the logger variables may be used.
	if err := initLogRotator(filepath.Join(cfg.LogDir,
		defaultLogFilename)); err != nil {

		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("%s: %w", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	// Warn about missing config file after the final command line parse
	// succeeds.  This prevents the warning on help messages and invalid
	// options.
	if configFileError != nil {
		log.Warnf("%v", configFileError)
	}

	if err := cfg.validate(); err != nil {
		err := fmt.Errorf("%s: %w", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	return &cfg, remainingArgs, nil
}
