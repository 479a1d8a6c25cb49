package handler

import (
	"time"

	"tapclaim/internal/registration"
)

// SubmitResponse is the HTTP response for an accepted POST /submit.
type SubmitResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	EthAddress string    `json:"ethAddress"`
	RgbAddress string    `json:"rgbAddress"`
	Timestamp  time.Time `json:"timestamp"`
}

// FromRegistration converts a stored registration to the submit response.
// Addresses echo back with the casing the client sent.
func FromRegistration(reg *registration.Registration) *SubmitResponse {
	return &SubmitResponse{
		Success:    true,
		Message:    "Registration successful",
		EthAddress: reg.EthAddress.String(),
		RgbAddress: reg.RgbAddress.String(),
		Timestamp:  reg.CreatedAt,
	}
}

// Record is the wire shape of one stored registration.
type Record struct {
	ID         int64     `json:"id"`
	EthAddress string    `json:"ethAddress"`
	RgbAddress string    `json:"rgbAddress"`
	Signature  string    `json:"signature"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ListResponse is the HTTP response for GET /registrations.
type ListResponse struct {
	Success bool     `json:"success"`
	Data    []Record `json:"data"`
}

// FromRegistrations converts stored registrations to the list response.
// Data is always an array, never null, so clients can iterate unconditionally.
func FromRegistrations(regs []*registration.Registration) *ListResponse {
	records := make([]Record, 0, len(regs))
	for _, reg := range regs {
		records = append(records, Record{
			ID:         reg.ID,
			EthAddress: reg.EthAddress.String(),
			RgbAddress: reg.RgbAddress.String(),
			Signature:  reg.Signature,
			Message:    reg.Message,
			CreatedAt:  reg.CreatedAt,
			UpdatedAt:  reg.UpdatedAt,
		})
	}
	return &ListResponse{Success: true, Data: records}
}
