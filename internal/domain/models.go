package domain

import (
	"time"

	"github.com/google/uuid"
)

// LegKind names the side of a ledger leg.
type LegKind string

const (
	LegCredit LegKind = "credit"
	LegDebit  LegKind = "debit"
)

// Leg is a single print-only ledger leg. Account is optional.
type Leg struct {
	Kind    LegKind `json:"kind"`
	Amount  int64   `json:"amount"`
	Account string  `json:"account,omitempty"`
}

// EntryKind names what a journal entry records.
type EntryKind string

const (
	EntryLeg  EntryKind = "leg"
	EntryHTTP EntryKind = "http"
)

// JournalEntry is one recorded leg execution or HTTP exchange.
type JournalEntry struct {
	ID         string    `json:"id"`
	Kind       EntryKind `json:"kind"`
	Leg        *Leg      `json:"leg,omitempty"`
	Message    string    `json:"message,omitempty"`
	Method     string    `json:"method,omitempty"`
	URL        string    `json:"url,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	BodyBytes  int       `json:"body_bytes,omitempty"`
	Error      string    `json:"error,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewID returns a time-ordered identifier, so lexical order follows creation order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
