//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"tapclaim/internal/events"
	"tapclaim/pkg/testutil/containers"
)

type KafkaSinkSuite struct {
	suite.Suite
	broker string
}

func TestKafkaSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSinkSuite))
}

func (s *KafkaSinkSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.broker = mgr.GetRedpanda(s.T()).Broker
}

// newSink creates a sink on its own topic so tests never read each other's
// records.
func (s *KafkaSinkSuite) newSink(topic string) *events.KafkaSink {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sink, err := events.NewKafkaSink(ctx, []string{s.broker}, topic)
	s.Require().NoError(err)
	return sink
}

// consume reads records from the topic's beginning until it has n of them or
// the deadline passes.
func (s *KafkaSinkSuite) consume(topic string, n int) []*kgo.Record {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer client.Close()

	var records []*kgo.Record
	deadline := time.Now().Add(15 * time.Second)
	for len(records) < n && time.Now().Before(deadline) {
		pollCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		fetches := client.PollFetches(pollCtx)
		cancel()
		fetches.EachRecord(func(r *kgo.Record) {
			records = append(records, r)
		})
	}
	s.Require().GreaterOrEqual(len(records), n, "expected %d records on %s", n, topic)
	return records
}

func (s *KafkaSinkSuite) TestPublishRoundTrip() {
	const topic = "it.registrations.roundtrip"
	sink := s.newSink(topic)
	defer sink.Close()

	const eth = "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb1"
	const rgb = "bc1pmzfrwwndsqbk3vwdzgx4cseum3j3lv7auk5txt5v2f5ze3k0svxqs3trpgq"
	sent := events.Event{
		ID:             "e1f86a6e-8233-4f5e-9f07-0c9c55f8a2d1",
		Type:           events.TypeRegistrationAccepted,
		RegistrationID: 7,
		EthAddress:     eth,
		RgbAddress:     rgb,
		PairDigest:     events.PairDigest(eth, rgb),
		RequestID:      "req-roundtrip",
		Client:         "curl 8.5 (Linux)",
		AcceptedAt:     time.Now().UTC().Truncate(time.Second),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(sink.Publish(ctx, sent))

	rec := s.consume(topic, 1)[0]

	s.Equal(sent.PairDigest, string(rec.Key), "records are keyed by pair digest")

	var got events.Event
	s.Require().NoError(json.Unmarshal(rec.Value, &got))
	s.Equal(sent.ID, got.ID)
	s.Equal(sent.Type, got.Type)
	s.Equal(sent.RegistrationID, got.RegistrationID)
	s.Equal(sent.EthAddress, got.EthAddress)
	s.Equal(sent.RgbAddress, got.RgbAddress)
	s.Equal(sent.RequestID, got.RequestID)
	s.Equal(sent.Client, got.Client)
	s.True(sent.AcceptedAt.Equal(got.AcceptedAt))
}

// TestSameDigestKeepsOrder verifies that events for one address pair come
// back in publish order. Keying by digest pins a pair to one partition,
// which is what makes the stream replayable per pair.
func (s *KafkaSinkSuite) TestSameDigestKeepsOrder() {
	const topic = "it.registrations.keyorder"
	sink := s.newSink(topic)
	defer sink.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	digest := events.PairDigest("0x"+strings.Repeat("5c", 20), "bc1pordered")
	for i := range 3 {
		ev := events.Event{
			ID:             fmt.Sprintf("order-%d", i),
			Type:           events.TypeRegistrationAccepted,
			RegistrationID: int64(i + 1),
			PairDigest:     digest,
			AcceptedAt:     time.Now(),
		}
		s.Require().NoError(sink.Publish(ctx, ev))
	}

	var ids []string
	for _, rec := range s.consume(topic, 3) {
		if string(rec.Key) != digest {
			continue
		}
		var got events.Event
		s.Require().NoError(json.Unmarshal(rec.Value, &got))
		ids = append(ids, got.ID)
	}
	s.Equal([]string{"order-0", "order-1", "order-2"}, ids)
}

// TestTopicCreationIsIdempotent verifies a second sink on an existing topic
// starts cleanly, as happens when multiple instances boot against one broker.
func (s *KafkaSinkSuite) TestTopicCreationIsIdempotent() {
	const topic = "it.registrations.idempotent"

	first := s.newSink(topic)
	defer first.Close()

	second := s.newSink(topic)
	second.Close()
}
