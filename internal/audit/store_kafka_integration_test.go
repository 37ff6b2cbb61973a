//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"icbridge/pkg/testutil/containers"
)

func TestKafkaStore_Integration(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	const topic = "icbridge.audit"
	rp.CreateTopic(t, topic)

	store, err := NewKafkaStore(rp.Brokers, topic)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	event := Event{
		Timestamp:       time.Now().UTC().Truncate(time.Millisecond),
		RequestID:       "req-1",
		Operation:       "consultar",
		TaxpayerID:      "12345678000199",
		ServiceID:       "CONSDECLARACAO13",
		StatusCode:      200,
		Success:         true,
		DurationSeconds: 0.42,
	}
	require.NoError(t, store.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, []byte("consultar"), records[0].Key)

	var got Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, event, got)
}
