// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bootstrap

import "fmt"

// ErrorCode identifies why a bootstrap stopped.  The numeric value is what
// gets written to the event log, so existing values must not be reordered.
type ErrorCode uint32

// These constants are used to identify a specific bootstrap Error.
const (
	// ErrConfig indicates the orchestrator was given an unusable
	// configuration.  No daemon was contacted.
	ErrConfig ErrorCode = iota + 1

	// ErrUnlock indicates a wallet refused to unlock with an error that
	// cannot be recovered from automatically.
	ErrUnlock

	// ErrEncrypt indicates encrypting a never encrypted wallet failed.
	// The daemon may need a restart before the bootstrap is rerun.
	ErrEncrypt

	// ErrLock indicates locking an already unlocked wallet, done before
	// unlocking it again, failed.
	ErrLock

	// ErrUnlockRetriesExhausted indicates a wallet kept asking to be
	// encrypted or locked beyond the configured number of attempts.
	ErrUnlockRetriesExhausted

	// ErrKeyPair indicates the day's key pair could not be created or did
	// not pass verification.
	ErrKeyPair

	// ErrProvisionPrimary indicates the primary wallet's regular address
	// pool could not be topped up.
	ErrProvisionPrimary

	// ErrProvisionSecondary indicates the secondary wallet's regular
	// address pool could not be topped up.
	ErrProvisionSecondary

	// ErrProvisionHolding indicates the holding address pool could not be
	// topped up.
	ErrProvisionHolding

	// ErrIssueSecret indicates the node secret could not be derived.
	ErrIssueSecret
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrConfig:                 "ErrConfig",
	ErrUnlock:                 "ErrUnlock",
	ErrEncrypt:                "ErrEncrypt",
	ErrLock:                   "ErrLock",
	ErrUnlockRetriesExhausted: "ErrUnlockRetriesExhausted",
	ErrKeyPair:                "ErrKeyPair",
	ErrProvisionPrimary:       "ErrProvisionPrimary",
	ErrProvisionSecondary:     "ErrProvisionSecondary",
	ErrProvisionHolding:       "ErrProvisionHolding",
	ErrIssueSecret:            "ErrIssueSecret",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error is the single error type returned by the orchestrator.  It records
// the stage that failed in addition to the usual code, description and
// underlying error.
type Error struct {
	Stage       Stage     // Stage that failed
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying error
}

// Error satisfies the error interface and prints human-readable errors.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// bootstrapError creates an Error given a set of arguments.
func bootstrapError(s Stage, c ErrorCode, desc string, err error) *Error {
	return &Error{Stage: s, ErrorCode: c, Description: desc, Err: err}
}
