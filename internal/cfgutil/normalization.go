// Copyright (c) 2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import "net"

// NormalizeAddress returns addr in host:port form, appending defaultPort when
// addr has no port.  An error is returned if addr is not a valid host even
// without a port.
func NormalizeAddress(addr string, defaultPort string) (hostport string, err error) {
	// A missing port makes the first split fail.  Retry with the default
	// port added; if that still fails the original error is the useful
	// one.
	host, port, origErr := net.SplitHostPort(addr)
	if origErr == nil {
		return net.JoinHostPort(host, port), nil
	}
	addr = net.JoinHostPort(addr, defaultPort)
	_, _, err = net.SplitHostPort(addr)
	if err != nil {
		return "", origErr
	}
	return addr, nil
}
