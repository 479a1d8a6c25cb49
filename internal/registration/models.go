package registration

import (
	"time"

	"tapclaim/pkg/domain"
)

// Registration is one accepted claim binding an EVM address to a Taproot
// address. ID is assigned by the store; it is monotonic and never reused.
type Registration struct {
	ID         int64
	EthAddress domain.EthAddress
	RgbAddress domain.RgbAddress
	Signature  string
	Message    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PairKey returns the uniqueness key for an address pair: case-insensitive on
// the EVM address (the same 20 bytes regardless of hex casing), exact on the
// Taproot address.
func PairKey(eth domain.EthAddress, rgb domain.RgbAddress) string {
	return eth.Canonical() + "|" + rgb.String()
}

// PairKey returns this registration's uniqueness key.
func (r *Registration) PairKey() string {
	return PairKey(r.EthAddress, r.RgbAddress)
}

// Submission carries the raw claim fields as received at the boundary,
// before any validation.
type Submission struct {
	EthAddress string
	RgbAddress string
	Signature  string
	Message    string
}
