// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletrpc

import (
	"errors"
	"fmt"
)

// Config holds the parameters needed to reach one wallet daemon's RPC
// server.
type Config struct {
	// Name labels the daemon in log output, e.g. "primary".
	Name string

	// Host is the host:port of the daemon's RPC server.
	Host string

	// User and Pass authenticate to the RPC server.
	User string
	Pass string

	// Certificates holds the PEM encoded root certificates used to verify
	// the server when TLS is enabled.
	Certificates []byte

	// DisableTLS talks plain HTTP to the daemon.  Coin daemons serve RPC
	// without TLS unless fronted by a proxy.
	DisableTLS bool
}

// validate checks the config is usable.
func (c *Config) validate() error {
	if c.Name == "" {
		return errors.New("wallet rpc config: missing name")
	}

	if c.Host == "" {
		return fmt.Errorf("%s wallet rpc config: missing host", c.Name)
	}

	if !c.DisableTLS && len(c.Certificates) == 0 {
		return fmt.Errorf("%s wallet rpc config: TLS enabled but no "+
			"certs provided", c.Name)
	}

	return nil
}
