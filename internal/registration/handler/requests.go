package handler

import (
	"tapclaim/internal/registration"
	dErrors "tapclaim/pkg/domain-errors"
)

// SubmitRequest is the HTTP request body for POST /submit.
type SubmitRequest struct {
	EthAddress string `json:"ethAddress"`
	RgbAddress string `json:"rgbAddress"`
	Signature  string `json:"signature"`
	Message    string `json:"message"`
}

// Validate rejects bodies with missing fields. Address format and signature
// checks run inside the registration service so the full rule order lives in
// one place.
func (r *SubmitRequest) Validate() error {
	if r.EthAddress == "" || r.RgbAddress == "" || r.Signature == "" || r.Message == "" {
		return dErrors.New(dErrors.CodeBadRequest, "ethAddress, rgbAddress, signature and message are required")
	}
	return nil
}

// Submission converts the request body to the service input type.
func (r *SubmitRequest) Submission() registration.Submission {
	return registration.Submission{
		EthAddress: r.EthAddress,
		RgbAddress: r.RgbAddress,
		Signature:  r.Signature,
		Message:    r.Message,
	}
}
