package registration

import (
	"context"

	dErrors "tapclaim/pkg/domain-errors"
)

// MinSignatureLength is the acceptance threshold for the length heuristic.
// A 65-byte EVM signature hex-encodes to 132 characters, so anything shorter
// than 100 cannot be a complete signature.
const MinSignatureLength = 100

// LengthHeuristic accepts any signature of at least MinSignatureLength
// characters. It performs no cryptographic verification; it filters obviously
// truncated values until address-recovery verification replaces it.
type LengthHeuristic struct{}

// Verify implements Verifier.
func (LengthHeuristic) Verify(_ context.Context, sub Submission) error {
	if len(sub.Signature) < MinSignatureLength {
		return dErrors.New(dErrors.CodeUnauthorized, "signature verification failed")
	}
	return nil
}
