// Package services defines the business logic of the travel assistant:
// ticket-price resolution, session state, and update dispatch. This file
// holds the response contract exchanged between resolvers and the
// dispatcher, ultimately rendered to the user.
package services

// ResponseType classifies a resolver outcome.
type ResponseType string

const (
	// TypeTicketPrice is a successful pricing answer.
	TypeTicketPrice ResponseType = "ticket_price"
	// TypeNotFound means neither the store nor the fallback API knew the place.
	TypeNotFound ResponseType = "not_found"
	// TypeClarify asks the user to name a place.
	TypeClarify ResponseType = "clarify"
	// TypeError is a degraded-dependency apology.
	TypeError ResponseType = "error"
	// TypeUnknown is the fixed fallback for unclassified intents.
	TypeUnknown ResponseType = "unknown"
)

// Data provenance markers. Authoritative prices come from the local store;
// fallback results are synthesized estimates and must be labelled as such.
const (
	SourceDB          = "db"
	SourceAPIEstimate = "api_estimate"
)

// Response is the unit exchanged between a resolver and the dispatcher.
// Message is always a pre-composed, human-readable Vietnamese string; raw
// errors never surface here. A failed response carries no Data.
type Response struct {
	Success bool         `json:"success"`
	Type    ResponseType `json:"type"`
	Source  string       `json:"source,omitempty"`
	Data    any          `json:"data,omitempty"`
	Message string       `json:"message"`
}
