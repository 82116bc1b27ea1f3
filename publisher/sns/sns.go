// Package sns provides an event subscriber that publishes committed
// envelopes to an AWS SNS topic.
package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/liamwh/veloxide"
)

// Client is the subset of the SNS API used by the subscriber.
type Client interface {
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

// Subscriber publishes committed events to an SNS topic. For FIFO topics
// the aggregate ID doubles as the message group, preserving per-aggregate
// ordering.
type Subscriber struct {
	client   Client
	topicARN string
	fifo     bool
}

// Option configures a Subscriber.
type Option func(*Subscriber)

// WithFIFO enables FIFO publishing: message group ID set to the aggregate
// ID and deduplication ID derived from the event sequence.
func WithFIFO() Option {
	return func(s *Subscriber) {
		s.fifo = true
	}
}

// New creates an SNS subscriber publishing to the given topic ARN.
func New(client Client, topicARN string, opts ...Option) *Subscriber {
	s := &Subscriber{client: client, topicARN: topicARN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the subscriber in dispatcher logs.
func (s *Subscriber) Name() string { return "sns" }

// Dispatch publishes each envelope as a separate SNS message with the
// event type and sequence as message attributes.
func (s *Subscriber) Dispatch(ctx context.Context, aggregateID string, events []veloxide.Envelope) error {
	for _, env := range events {
		body, err := json.Marshal(env.Payload)
		if err != nil {
			return fmt.Errorf("sns: failed to marshal payload for %s: %w", env.EventType, err)
		}

		input := &awssns.PublishInput{
			TopicArn: &s.topicARN,
			Message:  stringPtr(string(body)),
			MessageAttributes: map[string]types.MessageAttributeValue{
				"aggregate_id": {
					DataType:    stringPtr("String"),
					StringValue: stringPtr(aggregateID),
				},
				"event_type": {
					DataType:    stringPtr("String"),
					StringValue: stringPtr(env.EventType),
				},
				"event_version": {
					DataType:    stringPtr("String"),
					StringValue: stringPtr(env.EventVersion),
				},
				"sequence": {
					DataType:    stringPtr("Number"),
					StringValue: stringPtr(strconv.FormatInt(env.Sequence, 10)),
				},
			},
		}

		if s.fifo {
			input.MessageGroupId = stringPtr(aggregateID)
			input.MessageDeduplicationId = stringPtr(fmt.Sprintf("%s-%d", aggregateID, env.Sequence))
		}

		if _, err := s.client.Publish(ctx, input); err != nil {
			return fmt.Errorf("sns: failed to publish %s at sequence %d: %w", env.EventType, env.Sequence, err)
		}
	}
	return nil
}

func stringPtr(s string) *string { return &s }

var _ veloxide.Subscriber = (*Subscriber)(nil)
