package publishers

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/samvad-hq/ledger-demo/internal/domain"
	"github.com/samvad-hq/ledger-demo/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSNSPublisherPublishSuccess(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{
		id:       "topic",
		typ:      TypeSNS,
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      logger.NopLogger{},
	}

	err := pub.Publish(context.Background(), NewEvent("ledger-demo", domain.Leg{Kind: domain.LegDebit, Amount: 50, Account: "acc2"}, "Debiting 50 from account acc2"))
	require.NoError(t, err)
	require.NotNil(t, client.input, "client was not called")

	assert.Equal(t, "arn:aws:sns:::topic", aws.ToString(client.input.TopicArn))
	attr, ok := client.input.MessageAttributes["leg_kind"]
	require.True(t, ok, "leg_kind attribute missing")
	assert.Equal(t, "debit", aws.ToString(attr.StringValue))
	assert.Contains(t, aws.ToString(client.input.Message), `"account":"acc2"`)
}

func TestSNSPublisherPublishError(t *testing.T) {
	client := &fakeSNSClient{err: errors.New("boom")}
	pub := &snsPublisher{
		id:       "topic",
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      logger.NopLogger{},
	}

	assert.Error(t, pub.Publish(context.Background(), Event{}))
}

func TestNewSNSPublisherWithStaticCredentials(t *testing.T) {
	pub, err := newSNSPublisher(context.Background(), PublisherConfig{
		ID:   "topic",
		Type: TypeSNS,
		SNS: &SNSPublisherConfig{
			AWSCredentials: AWSCredentials{
				AccessKeyID:     "AKIDEXAMPLE",
				SecretAccessKey: "secret",
				Endpoint:        "http://localhost:4566",
			},
			TopicARN: "arn:aws:sns:us-east-1:000000000000:legs",
			Region:   "us-east-1",
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, TypeSNS, pub.Type())
	assert.Equal(t, "topic", pub.ID())
}
