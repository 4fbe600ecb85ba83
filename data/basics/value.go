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

package basics

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// ValueType is the tag of the Value union.
type ValueType uint32

// Value types carried as invocation parameters and return values.
const (
	ValueTypeVoid ValueType = iota
	ValueTypeU64
	ValueTypeI64
	ValueTypeBytes
	ValueTypeSymbol
	ValueTypeAddress

	invalidValueType
)

var valueTypeNames = [...]string{
	ValueTypeVoid:    "void",
	ValueTypeU64:     "u64",
	ValueTypeI64:     "i64",
	ValueTypeBytes:   "bytes",
	ValueTypeSymbol:  "sym",
	ValueTypeAddress: "addr",
}

// Known reports whether t is a defined value type.
func (t ValueType) Known() bool {
	return t < invalidValueType
}

func (t ValueType) String() string {
	if t.Known() {
		return valueTypeNames[t]
	}
	return fmt.Sprintf("valuetype(%d)", uint32(t))
}

// Value is a tagged union of the values contracts exchange. Only the field
// matching Type is populated.
type Value struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Type  ValueType `codec:"t"`
	U64   uint64    `codec:"u"`
	I64   int64     `codec:"i"`
	Bytes []byte    `codec:"b"`
	Sym   string    `codec:"s"`
	Addr  Address   `codec:"a"`
}

// Void is the empty value returned by functions with no result.
func Void() Value { return Value{Type: ValueTypeVoid} }

// U64Value wraps an unsigned integer.
func U64Value(v uint64) Value { return Value{Type: ValueTypeU64, U64: v} }

// I64Value wraps a signed integer.
func I64Value(v int64) Value { return Value{Type: ValueTypeI64, I64: v} }

// BytesValue wraps a byte string.
func BytesValue(b []byte) Value { return Value{Type: ValueTypeBytes, Bytes: b} }

// SymbolValue wraps a symbol.
func SymbolValue(s string) Value { return Value{Type: ValueTypeSymbol, Sym: s} }

// AddressValue wraps an address.
func AddressValue(a Address) Value { return Value{Type: ValueTypeAddress, Addr: a} }

// Equal compares tag and the populated variant.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case ValueTypeVoid:
		return true
	case ValueTypeU64:
		return v.U64 == o.U64
	case ValueTypeI64:
		return v.I64 == o.I64
	case ValueTypeBytes:
		return bytes.Equal(v.Bytes, o.Bytes)
	case ValueTypeSymbol:
		return v.Sym == o.Sym
	case ValueTypeAddress:
		return v.Addr == o.Addr
	}
	return false
}

// Size is the number of payload bytes carried by the value.
func (v Value) Size() int {
	switch v.Type {
	case ValueTypeBytes:
		return len(v.Bytes)
	case ValueTypeSymbol:
		return len(v.Sym)
	default:
		return 8
	}
}

// Validate checks the tag, that no other variant is populated, and the
// size limits of variable-length variants.
func (v Value) Validate(maxBytes int, maxSymbolLen int) error {
	if !v.Type.Known() {
		return fmt.Errorf("unknown value type %d", uint32(v.Type))
	}
	stray := (v.Type != ValueTypeU64 && v.U64 != 0) ||
		(v.Type != ValueTypeI64 && v.I64 != 0) ||
		(v.Type != ValueTypeBytes && len(v.Bytes) != 0) ||
		(v.Type != ValueTypeSymbol && v.Sym != "") ||
		(v.Type != ValueTypeAddress && !v.Addr.IsZero())
	if stray {
		return fmt.Errorf("%s value has more than one variant populated", v.Type)
	}
	switch v.Type {
	case ValueTypeBytes:
		if len(v.Bytes) > maxBytes {
			return fmt.Errorf("bytes value of %d bytes exceeds %d", len(v.Bytes), maxBytes)
		}
	case ValueTypeSymbol:
		return ValidateSymbol(v.Sym, maxSymbolLen)
	case ValueTypeAddress:
		return v.Addr.Validate()
	}
	return nil
}

func (v Value) String() string {
	switch v.Type {
	case ValueTypeVoid:
		return "void"
	case ValueTypeU64:
		return "u64:" + strconv.FormatUint(v.U64, 10)
	case ValueTypeI64:
		return "i64:" + strconv.FormatInt(v.I64, 10)
	case ValueTypeBytes:
		return "bytes:" + hex.EncodeToString(v.Bytes)
	case ValueTypeSymbol:
		return "sym:" + v.Sym
	case ValueTypeAddress:
		return "addr:" + v.Addr.String()
	}
	return v.Type.String()
}

// ParseValue parses the output of Value.String, e.g. "u64:100" or
// "addr:G...".
func ParseValue(s string) (Value, error) {
	if s == "void" {
		return Void(), nil
	}
	kind, arg, ok := strings.Cut(s, ":")
	if !ok {
		return Value{}, fmt.Errorf("value %q has no type prefix", s)
	}
	switch kind {
	case "u64":
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return U64Value(n), nil
	case "i64":
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return I64Value(n), nil
	case "bytes":
		b, err := hex.DecodeString(arg)
		if err != nil {
			return Value{}, err
		}
		return BytesValue(b), nil
	case "sym":
		return SymbolValue(arg), nil
	case "addr":
		a, err := ParseAddress(arg)
		if err != nil {
			return Value{}, err
		}
		return AddressValue(a), nil
	}
	return Value{}, fmt.Errorf("unknown value type %q", kind)
}

// ValidateSymbol checks that s is 1..maxLen characters of [A-Za-z0-9_].
func ValidateSymbol(s string, maxLen int) error {
	if len(s) == 0 {
		return fmt.Errorf("empty symbol")
	}
	if len(s) > maxLen {
		return fmt.Errorf("symbol %q is longer than %d", s, maxLen)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')) {
			return fmt.Errorf("symbol %q has invalid character at %d", s, i)
		}
	}
	return nil
}
