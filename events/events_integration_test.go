//go:build integration

package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

func TestIntegration_Publish(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}

	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	received := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(SubjectEvaluationCompleted, received)
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, nc.Flush())

	p, err := Connect(url, "", nil)
	require.NoError(t, err)
	defer p.Close()
	require.NoError(t, p.Deliver(context.Background(), evaluation()))

	select {
	case msg := <-received:
		var got Completed
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		require.Equal(t, "e-1", got.EvaluationID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for evaluation event")
	}
}
