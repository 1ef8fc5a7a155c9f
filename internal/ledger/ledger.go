// Package ledger runs the demo's print-only credit and debit legs.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samvad-hq/ledger-demo/internal/domain"
	"github.com/samvad-hq/ledger-demo/internal/logger"
	"github.com/samvad-hq/ledger-demo/pkg/publishers"
)

// Journal records executed legs.
type Journal interface {
	Record(entry domain.JournalEntry) error
}

// EventPublisher publishes executed legs downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Service prints legs and forwards them to the optional journal and publishers.
type Service struct {
	source    string
	out       io.Writer
	journal   Journal
	publisher EventPublisher
	log       logger.Logger
}

// NewService wires a leg runner. out is required; the other collaborators may be nil.
func NewService(source string, out io.Writer, journal Journal, publisher EventPublisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		source:    source,
		out:       out,
		journal:   journal,
		publisher: publisher,
		log:       log,
	}
}

// Message renders the line printed for a leg.
func Message(leg domain.Leg) string {
	switch {
	case leg.Kind == domain.LegCredit && leg.Account != "":
		return fmt.Sprintf("Crediting %d to account %s", leg.Amount, leg.Account)
	case leg.Kind == domain.LegDebit && leg.Account != "":
		return fmt.Sprintf("Debiting %d from account %s", leg.Amount, leg.Account)
	case leg.Kind == domain.LegCredit:
		return fmt.Sprintf("Credit leg executed with amount: %d", leg.Amount)
	default:
		return fmt.Sprintf("Debit leg executed with amount: %d", leg.Amount)
	}
}

// Credit executes a credit leg.
func (s *Service) Credit(ctx context.Context, amount int64, account string) error {
	return s.Execute(ctx, domain.Leg{Kind: domain.LegCredit, Amount: amount, Account: account})
}

// Debit executes a debit leg.
func (s *Service) Debit(ctx context.Context, amount int64, account string) error {
	return s.Execute(ctx, domain.Leg{Kind: domain.LegDebit, Amount: amount, Account: account})
}

// Execute prints the leg, then journals and publishes it. The line is printed
// even if journaling or publishing fails afterwards.
func (s *Service) Execute(ctx context.Context, leg domain.Leg) error {
	if s == nil || s.out == nil {
		return errors.New("ledger service is not initialized")
	}
	if leg.Kind != domain.LegCredit && leg.Kind != domain.LegDebit {
		return fmt.Errorf("unknown leg kind %q", leg.Kind)
	}
	if leg.Amount < 0 {
		return fmt.Errorf("%s leg amount must not be negative, got %d", leg.Kind, leg.Amount)
	}

	msg := Message(leg)
	if _, err := fmt.Fprintln(s.out, msg); err != nil {
		return fmt.Errorf("print %s leg: %w", leg.Kind, err)
	}

	var errs []error
	if s.journal != nil {
		if err := s.journal.Record(domain.JournalEntry{Kind: domain.EntryLeg, Leg: &leg, Message: msg}); err != nil {
			errs = append(errs, fmt.Errorf("journal %s leg: %w", leg.Kind, err))
		}
	}
	if s.publisher != nil {
		delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(s.source, leg, msg))
		if err != nil {
			errs = append(errs, fmt.Errorf("publish %s leg: %w", leg.Kind, err))
		}
		s.log.DebugObj("leg published", "leg_publish", map[string]any{
			"kind":      leg.Kind,
			"delivered": delivered,
		})
	}

	s.log.InfoObj("leg executed", "leg", leg)
	return errors.Join(errs...)
}
