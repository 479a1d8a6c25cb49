package events

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// PairDigest returns the hex keccak-256 digest of the canonical address pair.
// The digest keys the event stream, so all events for one pair land on the
// same partition. Canonicalization matches store uniqueness: lowercased EVM
// address, exact Taproot address.
func PairDigest(ethAddress, rgbAddress string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(strings.ToLower(ethAddress)))
	h.Write([]byte("|"))
	h.Write([]byte(rgbAddress))
	return hex.EncodeToString(h.Sum(nil))
}
