// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bootstrap

import (
	"fmt"
	"strings"
)

// Stage is a state of the bootstrap state machine.  Stages run strictly in
// order; each has one successor on success and stops the bootstrap on
// failure.
type Stage uint8

const (
	StageInit Stage = iota
	StageUnlockPrimary
	StageUnlockSecondary
	StageKeyPair
	StageProvisionPrimary
	StageProvisionSecondary
	StageProvisionHolding
	StageIssueSecret
	StageDone
)

var stageStrings = map[Stage]string{
	StageInit:               "init",
	StageUnlockPrimary:      "unlock primary",
	StageUnlockSecondary:    "unlock secondary",
	StageKeyPair:            "key pair",
	StageProvisionPrimary:   "provision primary",
	StageProvisionSecondary: "provision secondary",
	StageProvisionHolding:   "provision holding",
	StageIssueSecret:        "issue secret",
	StageDone:               "done",
}

func (s Stage) String() string {
	if str, ok := stageStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("unknown stage (%d)", int(s))
}

// Role selects which of the two cooperating node types is bootstrapped.
type Role uint8

const (
	// RoleIncoming nodes keep the holding pool on the primary wallet and
	// issue the node secret.
	RoleIncoming Role = iota

	// RoleOutgoing nodes keep the holding pool on the secondary wallet and
	// never issue a secret.
	RoleOutgoing
)

// ParseRole parses a role name, ignoring case.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "incoming":
		return RoleIncoming, nil
	case "outgoing":
		return RoleOutgoing, nil
	}

	return 0, fmt.Errorf("invalid role %q: must be incoming or outgoing", s)
}

func (r Role) String() string {
	switch r {
	case RoleIncoming:
		return "incoming"
	case RoleOutgoing:
		return "outgoing"
	}
	return fmt.Sprintf("unknown role (%d)", int(r))
}
