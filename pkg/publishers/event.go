package publishers

import (
	"time"

	"github.com/samvad-hq/ledger-demo/internal/domain"
)

// Event represents a ledger leg published downstream.
type Event struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Leg        domain.Leg `json:"leg"`
	Message    string     `json:"message"`
	ExecutedAt time.Time  `json:"executed_at"`
}

// NewEvent constructs an Event for the given leg.
func NewEvent(source string, leg domain.Leg, message string) Event {
	return Event{
		ID:         domain.NewID(),
		Source:     source,
		Leg:        leg,
		Message:    message,
		ExecutedAt: time.Now().UTC(),
	}
}

// attributes are the routing attributes attached by queue and topic publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"leg_kind": string(e.Leg.Kind),
		"source":   e.Source,
	}
}
