package publishers

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/samvad-hq/ledger-demo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCPPubSubPublisherPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "test-project")
	require.NoError(t, err)
	defer client.Close()
	_, err = client.CreateTopic(ctx, "legs")
	require.NoError(t, err)

	pub, err := newGCPPubSubPublisher(ctx, PublisherConfig{
		ID:   "pubsub",
		Type: TypeGCPPubSub,
		GCPPubSub: &GCPPubSubPublisherConfig{
			ProjectID: "test-project",
			Topic:     "legs",
		},
	}, nil)
	require.NoError(t, err)
	defer NewFanout([]Publisher{pub}).Close()

	evt := NewEvent("ledger-demo", domain.Leg{Kind: domain.LegCredit, Amount: 100}, "Credit leg executed with amount: 100")
	require.NoError(t, pub.Publish(ctx, evt))

	msgs := server.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "credit", msgs[0].Attributes["leg_kind"])

	var decoded Event
	require.NoError(t, json.Unmarshal(msgs[0].Data, &decoded))
	assert.Equal(t, evt.ID, decoded.ID)
	assert.EqualValues(t, 100, decoded.Leg.Amount)
}
