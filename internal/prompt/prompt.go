// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build !js

package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when a passphrase is requested but stdin is not
// attached to a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal: run interactively " +
	"to enter passphrases")

// readPassword reads one line from the terminal without echo.  It is a
// variable so tests can replace the terminal.
var readPassword = func() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	return term.ReadPassword(fd)
}

// PassPrompt prompts the user for a passphrase with the given prefix, writing
// the prompts to w.  When confirm is set the user must enter the passphrase a
// second time.  Empty and mismatching entries are asked for again.
func PassPrompt(w io.Writer, prefix string, confirm bool) ([]byte, error) {
	for {
		fmt.Fprintf(w, "%s: ", prefix)
		pass, err := readPassword()
		fmt.Fprintln(w)
		if err != nil {
			return nil, err
		}
		pass = bytes.TrimSpace(pass)
		if len(pass) == 0 {
			continue
		}
		if !confirm {
			return pass, nil
		}

		fmt.Fprint(w, "Confirm passphrase: ")
		again, err := readPassword()
		fmt.Fprintln(w)
		if err != nil {
			return nil, err
		}
		again = bytes.TrimSpace(again)
		if !bytes.Equal(pass, again) {
			fmt.Fprintln(w, "The entered passphrases do not match")
			continue
		}

		return pass, nil
	}
}
