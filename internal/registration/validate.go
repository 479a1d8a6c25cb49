package registration

import (
	"context"

	"tapclaim/pkg/domain"
	dErrors "tapclaim/pkg/domain-errors"
)

// Verifier authenticates a submission's signature over its message.
// Implementations receive the whole submission so a cryptographic verifier
// can recover the signing address and compare it to the claimed one.
type Verifier interface {
	Verify(ctx context.Context, sub Submission) error
}

// Validator applies the submission checks in a fixed order. The first failure
// short-circuits and is the reported reason; later stages never run.
//
// Order: field presence, EVM address format, Taproot address format,
// signature verification. Validation is pure apart from the Verifier call and
// never touches the store.
type Validator struct {
	verifier Verifier
}

// NewValidator constructs a Validator. A nil verifier selects the length
// heuristic.
func NewValidator(verifier Verifier) *Validator {
	if verifier == nil {
		verifier = LengthHeuristic{}
	}
	return &Validator{verifier: verifier}
}

// Validate runs the ordered checks and returns the parsed address pair on
// success.
func (v *Validator) Validate(ctx context.Context, sub Submission) (domain.EthAddress, domain.RgbAddress, error) {
	if sub.EthAddress == "" || sub.RgbAddress == "" || sub.Signature == "" || sub.Message == "" {
		return domain.EthAddress{}, domain.RgbAddress{}, dErrors.New(dErrors.CodeBadRequest, "ethAddress, rgbAddress, signature and message are required")
	}

	eth, err := domain.ParseEthAddress(sub.EthAddress)
	if err != nil {
		return domain.EthAddress{}, domain.RgbAddress{}, dErrors.New(dErrors.CodeValidation, "ethAddress must be a 0x-prefixed 20-byte hex string")
	}

	rgb, err := domain.ParseRgbAddress(sub.RgbAddress)
	if err != nil {
		return domain.EthAddress{}, domain.RgbAddress{}, dErrors.New(dErrors.CodeValidation, "rgbAddress must be a bc1 taproot address")
	}

	if err := v.verifier.Verify(ctx, sub); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return domain.EthAddress{}, domain.RgbAddress{}, err
		}
		return domain.EthAddress{}, domain.RgbAddress{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "signature verification failed")
	}

	return eth, rgb, nil
}
