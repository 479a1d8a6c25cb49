// Package domain holds the validated address primitives shared across the
// service. Both types enforce their format at construction time so downstream
// code can treat any non-zero value as well-formed. Keep this package free of
// I/O, context.Context, and clocks.
package domain

import (
	"regexp"
	"strings"

	dErrors "tapclaim/pkg/domain-errors"
)

// EthAddress is a validated EVM account address: a 20-byte value hex-encoded
// with a 0x prefix, 42 characters total. Hex digits are case-insensitive and
// the submitted casing is preserved.
type EthAddress struct {
	value string
}

var ethAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// ParseEthAddress validates and returns an EthAddress.
func ParseEthAddress(s string) (EthAddress, error) {
	if !ethAddressPattern.MatchString(s) {
		return EthAddress{}, dErrors.New(dErrors.CodeInvalidInput, "eth address must be 0x followed by 40 hex characters")
	}
	return EthAddress{value: s}, nil
}

// MustEthAddress creates an EthAddress, panicking if invalid.
// Use only in tests or when the value is known to be valid.
func MustEthAddress(s string) EthAddress {
	a, err := ParseEthAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the address as submitted.
func (a EthAddress) String() string {
	return a.value
}

// Canonical returns the lowercase form used for uniqueness comparison.
// Two addresses naming the same 20 bytes are Canonical-equal regardless of
// checksum casing.
func (a EthAddress) Canonical() string {
	return strings.ToLower(a.value)
}

// IsZero returns true if this is the zero value (uninitialized).
func (a EthAddress) IsZero() bool {
	return a.value == ""
}

// RgbAddress is a Taproot-style Bitcoin address used for RGB asset bindings.
//
// Validation is a prefix check only: the address must begin with the literal
// bc1. No bech32m checksum or length validation is performed at this layer.
type RgbAddress struct {
	value string
}

const taprootPrefix = "bc1"

// ParseRgbAddress validates and returns an RgbAddress.
func ParseRgbAddress(s string) (RgbAddress, error) {
	if !strings.HasPrefix(s, taprootPrefix) {
		return RgbAddress{}, dErrors.New(dErrors.CodeInvalidInput, "rgb address must begin with bc1")
	}
	return RgbAddress{value: s}, nil
}

// MustRgbAddress creates an RgbAddress, panicking if invalid.
// Use only in tests or when the value is known to be valid.
func MustRgbAddress(s string) RgbAddress {
	a, err := ParseRgbAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the address value.
func (a RgbAddress) String() string {
	return a.value
}

// IsZero returns true if this is the zero value (uninitialized).
func (a RgbAddress) IsZero() bool {
	return a.value == ""
}
