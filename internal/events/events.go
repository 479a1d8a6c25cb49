// Package events publishes accepted registrations to an external stream.
//
// The intake path hands events to a buffered Publisher and moves on; a Worker
// drains the buffer into a Sink (Kafka when brokers are configured, a no-op
// otherwise). Publishing is best-effort: a full buffer drops the event and
// the submission still succeeds.
package events

import "time"

// TypeRegistrationAccepted names the single event type this service emits.
const TypeRegistrationAccepted = "registration.accepted"

// Event is the payload published for each accepted registration.
type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	RegistrationID int64     `json:"registrationId"`
	EthAddress     string    `json:"ethAddress"`
	RgbAddress     string    `json:"rgbAddress"`
	PairDigest     string    `json:"pairDigest"`
	RequestID      string    `json:"requestId,omitempty"`
	Client         string    `json:"client,omitempty"`
	AcceptedAt     time.Time `json:"acceptedAt"`
}
