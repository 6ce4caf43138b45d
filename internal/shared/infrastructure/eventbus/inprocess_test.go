package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessBus_PublishEnvelope(t *testing.T) {
	ctx := context.Background()
	bus := NewInProcessBus(nil)
	consumer := &recordingConsumer{keys: []string{"wellness.signals.changed"}}
	bus.RegisterConsumer(consumer)

	env, err := NewEnvelope("wellness.signals.changed", "wellness", "user-7", struct{}{})
	require.NoError(t, err)

	require.NoError(t, PublishEnvelope(ctx, bus, env))

	events := consumer.received()
	require.Len(t, events, 1)
	assert.Equal(t, env.EventID, events[0].EventID)
	assert.Equal(t, "user-7", events[0].AggregateID)
}

func TestInProcessBus_ConsumerFailureDoesNotFailPublish(t *testing.T) {
	bus := NewInProcessBus(nil)
	bus.RegisterConsumer(&recordingConsumer{keys: []string{"k"}, err: errors.New("down")})

	assert.NoError(t, bus.Publish(context.Background(), "k", []byte(`{"routing_key":"k"}`)))
	assert.NoError(t, bus.Publish(context.Background(), "k", []byte(`garbage`)))
	assert.NoError(t, bus.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), "k", nil))
	assert.NoError(t, p.Close())
}
