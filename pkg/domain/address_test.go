package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "tapclaim/pkg/domain-errors"
)

// TestParseEthAddress_Invariants validates the parsing invariant:
// "an EVM address is 0x followed by exactly 40 hex characters".
func TestParseEthAddress_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseEthAddress("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects missing prefix", func(t *testing.T) {
		_, err := ParseEthAddress("742d35cc6634c0532925a3b844bc9e7595f0beb1742d")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects short hex body", func(t *testing.T) {
		_, err := ParseEthAddress("0x742d35cc6634c0532925a3b844bc9e7595f0be")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects long hex body", func(t *testing.T) {
		_, err := ParseEthAddress("0x742d35cc6634c0532925a3b844bc9e7595f0beb1aa")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects non-hex characters", func(t *testing.T) {
		_, err := ParseEthAddress("0x742d35cc6634c0532925a3b844bc9e7595f0bezz")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts lowercase hex", func(t *testing.T) {
		a, err := ParseEthAddress("0x742d35cc6634c0532925a3b844bc9e7595f0beb1")
		require.NoError(t, err)
		assert.Equal(t, "0x742d35cc6634c0532925a3b844bc9e7595f0beb1", a.String())
	})

	t.Run("accepts mixed-case checksum hex", func(t *testing.T) {
		a, err := ParseEthAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb1")
		require.NoError(t, err)
		assert.Equal(t, "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb1", a.String(), "submitted casing is preserved")
	})
}

// TestEthAddress_Canonical verifies that casing variants of the same address
// collapse to one canonical form, which is what uniqueness checks compare.
func TestEthAddress_Canonical(t *testing.T) {
	lower := MustEthAddress("0x742d35cc6634c0532925a3b844bc9e7595f0beb1")
	mixed := MustEthAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb1")

	assert.Equal(t, lower.Canonical(), mixed.Canonical())
	assert.NotEqual(t, lower.String(), mixed.String())
	assert.Equal(t, "0x742d35cc6634c0532925a3b844bc9e7595f0beb1", mixed.Canonical())
}

// TestParseEthAddress_SecurityInvariants validates trust boundary parsing:
// attack vectors must be rejected at API entry points.
func TestParseEthAddress_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// Attack vectors
		{"SQL injection attempt", "'; DROP TABLE registrations;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "0x742d35cc\x006634c0532925a3b844bc9e7595f0beb1", true},
		{"Oversized input", "0x" + strings.Repeat("a", 1000), true},
		{"Unicode zero-width space", "0x742d35cc​6634c0532925a3b844bc9e7595f0beb1", true},
		{"Trailing whitespace", "0x742d35cc6634c0532925a3b844bc9e7595f0beb1 ", true},
		{"Leading whitespace", " 0x742d35cc6634c0532925a3b844bc9e7595f0beb1", true},
		{"Embedded newline", "0x742d35cc6634c0532925a3b844bc9e7595f0beb1\n", true},

		// Edge cases
		{"Empty string", "", true},
		{"Prefix only", "0x", true},
		{"Uppercase prefix", "0X742D35CC6634C0532925A3B844BC9E7595F0BEB1", true},
		{"Zero address", "0x0000000000000000000000000000000000000000", false},

		// Valid
		{"Valid lowercase", "0x742d35cc6634c0532925a3b844bc9e7595f0beb1", false},
		{"Valid uppercase hex", "0x742D35CC6634C0532925A3B844BC9E7595F0BEB1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEthAddress(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestParseRgbAddress_Invariants validates the prefix rule: an RGB address
// must begin with bc1. Nothing beyond the prefix is checked at this layer.
func TestParseRgbAddress_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseRgbAddress("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects legacy base58 address", func(t *testing.T) {
		_, err := ParseRgbAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects testnet prefix", func(t *testing.T) {
		_, err := ParseRgbAddress("tb1pqqqqp399et2xygdj5xreqhjjvcmzhxw4aywxecjdzew6hylgvsesf3hn0c")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects uppercase prefix", func(t *testing.T) {
		_, err := ParseRgbAddress("BC1PMZFRWWNDSQBK3VWDZGX4CSEUM3J3LV7AUK5TXT5V2F5ZE3K0SVXQS3TRPGQ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects leading whitespace", func(t *testing.T) {
		_, err := ParseRgbAddress(" bc1pmzfrwwndsqbk3vwdzgx4cseum3j3lv7auk5txt5v2f5ze3k0svxqs3trpgq")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts taproot address", func(t *testing.T) {
		a, err := ParseRgbAddress("bc1pmzfrwwndsqbk3vwdzgx4cseum3j3lv7auk5txt5v2f5ze3k0svxqs3trpgq")
		require.NoError(t, err)
		assert.Equal(t, "bc1pmzfrwwndsqbk3vwdzgx4cseum3j3lv7auk5txt5v2f5ze3k0svxqs3trpgq", a.String())
	})

	t.Run("accepts segwit v0 address", func(t *testing.T) {
		// Prefix rule only: bc1q addresses pass even though they are not taproot.
		_, err := ParseRgbAddress("bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4")
		require.NoError(t, err)
	})

	t.Run("accepts bare prefix", func(t *testing.T) {
		// Degenerate but allowed: the rule is prefix-only.
		_, err := ParseRgbAddress("bc1")
		require.NoError(t, err)
	})
}

// TestAddressTypes_ZeroValues ensures zero values are detectable so stores
// and handlers can refuse uninitialized addresses.
func TestAddressTypes_ZeroValues(t *testing.T) {
	var eth EthAddress
	var rgb RgbAddress

	assert.True(t, eth.IsZero())
	assert.True(t, rgb.IsZero())
	assert.Empty(t, eth.String())
	assert.Empty(t, rgb.String())

	assert.False(t, MustEthAddress("0x742d35cc6634c0532925a3b844bc9e7595f0beb1").IsZero())
	assert.False(t, MustRgbAddress("bc1pmzfrwwndsqbk3vwdzgx4cseum3j3lv7auk5txt5v2f5ze3k0svxqs3trpgq").IsZero())
}
