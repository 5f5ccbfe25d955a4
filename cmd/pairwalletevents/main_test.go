// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pairwallet/pairwalletd/bootstrap"
	"github.com/pairwallet/pairwalletd/eventlog"
	"github.com/stretchr/testify/require"
)

func TestPrintEvents(t *testing.T) {
	at := time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)
	events := []eventlog.Event{{
		Code:    uint32(bootstrap.ErrUnlock),
		Message: "unable to unlock primary wallet",
		Time:    at,
	}, {
		Code:    uint32(bootstrap.ErrKeyPair),
		Message: "key pair unusable",
		Time:    at.Add(time.Hour),
	}}

	var all bytes.Buffer
	printEvents(&all, events, 0)
	require.Equal(t,
		"2026-03-14T08:00:00Z ErrUnlock                  unable to "+
			"unlock primary wallet\n"+
			"2026-03-14T09:00:00Z ErrKeyPair                 key pair "+
			"unusable\n",
		all.String())

	var filtered bytes.Buffer
	printEvents(&filtered, events, uint32(bootstrap.ErrKeyPair))
	require.Contains(t, filtered.String(), "ErrKeyPair")
	require.NotContains(t, filtered.String(), "ErrUnlock")
}

func TestParseArgs(t *testing.T) {
	_, err := parseArgs(nil)
	require.Error(t, err)

	var flagErr *flags.Error
	require.ErrorAs(t, err, &flagErr)
	require.Equal(t, flags.ErrRequired, flagErr.Type)

	opts, err := parseArgs([]string{
		"--dsn", "sqlite:///var/lib/pairwalletd/events.db", "--code", "3",
	})
	require.NoError(t, err)
	require.Equal(t, "sqlite:///var/lib/pairwalletd/events.db", opts.DSN)
	require.Equal(t, uint32(3), opts.Code)
}
