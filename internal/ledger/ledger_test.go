package ledger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/samvad-hq/ledger-demo/internal/domain"
	"github.com/samvad-hq/ledger-demo/pkg/publishers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	entries []domain.JournalEntry
	err     error
}

func (f *fakeJournal) Record(e domain.JournalEntry) error {
	f.entries = append(f.entries, e)
	return f.err
}

type fakePublisher struct {
	events []publishers.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.events = append(f.events, evt)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func TestMessage(t *testing.T) {
	tests := []struct {
		leg  domain.Leg
		want string
	}{
		{domain.Leg{Kind: domain.LegCredit, Amount: 100}, "Credit leg executed with amount: 100"},
		{domain.Leg{Kind: domain.LegDebit, Amount: 50}, "Debit leg executed with amount: 50"},
		{domain.Leg{Kind: domain.LegCredit, Amount: 100, Account: "account1"}, "Crediting 100 to account account1"},
		{domain.Leg{Kind: domain.LegDebit, Amount: 50, Account: "account2"}, "Debiting 50 from account account2"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Message(tc.leg))
	}
}

func TestCreditAndDebitPrintLines(t *testing.T) {
	var out bytes.Buffer
	svc := NewService("ledger-demo", &out, nil, nil, nil)

	require.NoError(t, svc.Credit(context.Background(), 100, ""))
	require.NoError(t, svc.Debit(context.Background(), 50, ""))

	assert.Equal(t, "Credit leg executed with amount: 100\nDebit leg executed with amount: 50\n", out.String())
}

func TestExecuteJournalsAndPublishes(t *testing.T) {
	var out bytes.Buffer
	journal := &fakeJournal{}
	pub := &fakePublisher{}
	svc := NewService("ledger-demo", &out, journal, pub, nil)

	require.NoError(t, svc.Credit(context.Background(), 100, "acc1"))

	require.Len(t, journal.entries, 1)
	assert.Equal(t, domain.EntryLeg, journal.entries[0].Kind)
	assert.Equal(t, "Crediting 100 to account acc1", journal.entries[0].Message)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "ledger-demo", pub.events[0].Source)
	assert.Equal(t, domain.LegCredit, pub.events[0].Leg.Kind)
	assert.NotEmpty(t, pub.events[0].ID)
}

func TestExecuteReportsSinkFailuresAfterPrinting(t *testing.T) {
	var out bytes.Buffer
	svc := NewService("ledger-demo", &out,
		&fakeJournal{err: errors.New("disk full")},
		&fakePublisher{err: errors.New("queue down")},
		nil)

	err := svc.Debit(context.Background(), 50, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "queue down")
	assert.Equal(t, "Debit leg executed with amount: 50\n", out.String())
}

func TestExecuteRejectsInvalidLegs(t *testing.T) {
	var out bytes.Buffer
	svc := NewService("ledger-demo", &out, nil, nil, nil)

	assert.Error(t, svc.Credit(context.Background(), -1, ""))
	assert.Error(t, svc.Execute(context.Background(), domain.Leg{Kind: "transfer", Amount: 1}))
	assert.NoError(t, svc.Debit(context.Background(), 0, ""))
	assert.Equal(t, "Debit leg executed with amount: 0\n", out.String())

	var nilSvc *Service
	assert.Error(t, nilSvc.Credit(context.Background(), 1, ""))
}
