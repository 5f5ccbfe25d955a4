// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// pairwalletevents prints the failure events recorded by pairwalletd.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pairwallet/pairwalletd/bootstrap"
	"github.com/pairwallet/pairwalletd/eventlog"
)

// options holds the command line flags.  The DSN has no default since
// pairwalletd only writes to a database when --eventlog.dsn is set.
type options struct {
	DSN  string `long:"dsn" required:"true" description:"Event log database, the same value as pairwalletd's --eventlog.dsn (sqlite://<path> or postgres://...)"`
	Code uint32 `long:"code" description:"Only print events with this code"`
}

func main() {
	os.Exit(mainInt())
}

func parseArgs(args []string) (*options, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	return &opts, nil
}

func mainInt() int {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		return 1
	}

	store, err := eventlog.Open(opts.DSN)
	if err != nil {
		fmt.Println("Failed to open event log:", err)
		return 1
	}
	defer store.Close()

	events, err := store.Events()
	if err != nil {
		fmt.Println("Failed to read events:", err)
		return 1
	}

	printEvents(os.Stdout, events, opts.Code)
	return 0
}

// printEvents writes one line per event, skipping events whose code differs
// from code unless code is zero.
func printEvents(w io.Writer, events []eventlog.Event, code uint32) {
	for _, e := range events {
		if code != 0 && e.Code != code {
			continue
		}
		fmt.Fprintf(w, "%s %-26v %s\n", e.Time.Format(time.RFC3339),
			bootstrap.ErrorCode(e.Code), e.Message)
	}
}
