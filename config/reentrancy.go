// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"fmt"
)

// ReentrancyPolicy decides whether a contract that is already executing
// further up the call stack may be called again.
type ReentrancyPolicy int

const (
	// ReentrancyDeny refuses any call to a contract already on the stack.
	ReentrancyDeny ReentrancyPolicy = iota
	// ReentrancyDenySelf refuses only a contract calling itself directly.
	ReentrancyDenySelf
	// ReentrancyAllow permits re-entry into any contract.
	ReentrancyAllow

	numReentrancyPolicies
)

var reentrancyPolicyNames = [...]string{
	ReentrancyDeny:     "deny",
	ReentrancyDenySelf: "deny-self",
	ReentrancyAllow:    "allow",
}

// Known reports whether p is a defined policy.
func (p ReentrancyPolicy) Known() bool {
	return p >= 0 && p < numReentrancyPolicies
}

func (p ReentrancyPolicy) String() string {
	if p.Known() {
		return reentrancyPolicyNames[p]
	}
	return fmt.Sprintf("reentrancy(%d)", int(p))
}

// ParseReentrancyPolicy parses the String form of a policy.
func ParseReentrancyPolicy(s string) (ReentrancyPolicy, error) {
	for p, name := range reentrancyPolicyNames {
		if name == s {
			return ReentrancyPolicy(p), nil
		}
	}
	return 0, fmt.Errorf("unknown reentrancy policy %q", s)
}

// MarshalText implements encoding.TextMarshaler so config files carry the
// policy by name.
func (p ReentrancyPolicy) MarshalText() ([]byte, error) {
	if !p.Known() {
		return nil, fmt.Errorf("unknown reentrancy policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ReentrancyPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseReentrancyPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
