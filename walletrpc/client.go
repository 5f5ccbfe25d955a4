// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletrpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/davecgh/go-spew/spew"
)

// Client is a JSON-RPC client for one coin daemon's wallet.  It only exposes
// the calls the node bootstrap needs.  Calls block until the daemon answers;
// no timeout is applied beyond the transport's own.
type Client struct {
	name string
	rpc  *rpcclient.Client
}

// New creates a client for the daemon described by cfg.  The daemon is not
// contacted until the first call.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("missing wallet rpc config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	connCfg := &rpcclient.ConnConfig{
		Host:                cfg.Host,
		User:                cfg.User,
		Pass:                cfg.Pass,
		Certificates:        cfg.Certificates,
		DisableTLS:          cfg.DisableTLS,
		HTTPPostMode:        true,
		DisableConnectOnNew: true,
	}
	rpc, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create %s wallet rpc "+
			"client: %w", cfg.Name, err)
	}

	return &Client{
		name: cfg.Name,
		rpc:  rpc,
	}, nil
}

// Name returns the label of the daemon.
func (c *Client) Name() string {
	return c.name
}

// WalletPassphrase unlocks the wallet for timeoutSecs seconds.
func (c *Client) WalletPassphrase(passphrase string, timeoutSecs int64) error {
	log.Debugf("walletpassphrase on %s wallet (timeout %ds)", c.name,
		timeoutSecs)

	return c.rpc.WalletPassphrase(passphrase, timeoutSecs)
}

// WalletLock locks the wallet.
func (c *Client) WalletLock() error {
	log.Debugf("walletlock on %s wallet", c.name)

	return c.rpc.WalletLock()
}

// EncryptWallet encrypts a wallet that has never been encrypted.  Most
// daemons shut down after a successful call and have to be restarted before
// they accept further requests.
func (c *Client) EncryptWallet(passphrase string) error {
	log.Infof("encryptwallet on %s wallet", c.name)

	_, err := c.rawRequest("encryptwallet", passphrase)
	return err
}

// GetAddressesByAccount returns the receiving addresses of account.
func (c *Client) GetAddressesByAccount(account string) ([]string, error) {
	res, err := c.rawRequest("getaddressesbyaccount", account)
	if err != nil {
		return nil, err
	}

	var addrs []string
	if err := json.Unmarshal(res, &addrs); err != nil {
		return nil, fmt.Errorf("invalid getaddressesbyaccount reply "+
			"from %s wallet: %w", c.name, err)
	}

	return addrs, nil
}

// GetNewAddress creates a new receiving address in account.
func (c *Client) GetNewAddress(account string) (string, error) {
	res, err := c.rawRequest("getnewaddress", account)
	if err != nil {
		return "", err
	}

	var addr string
	if err := json.Unmarshal(res, &addr); err != nil {
		return "", fmt.Errorf("invalid getnewaddress reply from %s "+
			"wallet: %w", c.name, err)
	}

	return addr, nil
}

// Shutdown stops the client and waits for its goroutines to exit.
func (c *Client) Shutdown() {
	c.rpc.Shutdown()
	c.rpc.WaitForShutdown()
}

// rawRequest sends a request whose reply is decoded by the caller.  Addresses
// are kept as strings so the client works with daemons whose address
// encodings btcutil does not know.
func (c *Client) rawRequest(method string, params ...interface{}) (
	json.RawMessage, error) {

	rawParams := make([]json.RawMessage, 0, len(params))
	for _, p := range params {
		b, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		rawParams = append(rawParams, b)
	}

	res, err := c.rpc.RawRequest(method, rawParams)
	if err != nil {
		return nil, err
	}

	log.Tracef("%s reply from %s wallet: %v", method, c.name,
		newLogClosure(func() string {
			return spew.Sdump(res)
		}))

	return res, nil
}
