package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harishgm1236-debug/interview-text/orchestrator"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
	closed   bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) Close() { f.closed = true }

func evaluation() orchestrator.Evaluation {
	res := orchestrator.EmptyResult()
	res.OverallMarks = 7.2
	res.OverallPercentage = 72
	return orchestrator.Evaluation{
		ID:        "e-1",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Category:  "technical",
		Weight:    2,
		Result:    res,
	}
}

func TestDeliverPublishesCompleted(t *testing.T) {
	fc := &fakeConn{}
	p := newPublisher(fc, "", nil)

	require.NoError(t, p.Deliver(context.Background(), evaluation()))
	require.Equal(t, []string{SubjectEvaluationCompleted}, fc.subjects)

	var got Completed
	require.NoError(t, json.Unmarshal(fc.payloads[0], &got))
	require.Equal(t, "e-1", got.EvaluationID)
	require.Equal(t, 7.2, got.OverallMarks)
	require.Equal(t, "technical", got.Category)
	require.Equal(t, "neutral", got.Record["sentiment"])

	p.Close()
	require.True(t, fc.closed)
}

func TestDeliverErrors(t *testing.T) {
	fc := &fakeConn{err: errors.New("nats: connection closed")}
	p := newPublisher(fc, "custom.subject", nil)
	err := p.Deliver(context.Background(), evaluation())
	require.ErrorContains(t, err, "publish custom.subject")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, newPublisher(&fakeConn{}, "", nil).Deliver(ctx, evaluation()), context.Canceled)
}
