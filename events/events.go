// Package events publishes finished evaluations to NATS so downstream
// consumers (history, dashboards, notification) can react to them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/harishgm1236-debug/interview-text/orchestrator"
)

// SubjectEvaluationCompleted carries one Completed message per evaluation.
const SubjectEvaluationCompleted = "interview.evaluation.completed"

// Completed is the payload published for each evaluation.
type Completed struct {
	EvaluationID      string         `json:"evaluation_id"`
	CreatedAt         time.Time      `json:"created_at"`
	Category          string         `json:"category"`
	Weight            float64        `json:"weight"`
	OverallMarks      float64        `json:"overall_marks"`
	OverallPercentage float64        `json:"overall_percentage"`
	Record            map[string]any `json:"record"`
}

func completed(ev orchestrator.Evaluation) Completed {
	return Completed{
		EvaluationID:      ev.ID,
		CreatedAt:         ev.CreatedAt,
		Category:          ev.Category,
		Weight:            ev.Weight,
		OverallMarks:      ev.Result.OverallMarks,
		OverallPercentage: ev.Result.OverallPercentage,
		Record:            ev.Result.Record(),
	}
}

type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// Publisher is an orchestrator.Sink backed by a NATS connection.
type Publisher struct {
	conn    conn
	subject string
	log     logrus.FieldLogger
}

// Connect dials url. An empty subject means SubjectEvaluationCompleted.
func Connect(url, subject string, log logrus.FieldLogger) (*Publisher, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	opts := []nats.Option{
		nats.Name("interview-eval"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info("nats reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return newPublisher(nc, subject, log), nil
}

func newPublisher(c conn, subject string, log logrus.FieldLogger) *Publisher {
	if subject == "" {
		subject = SubjectEvaluationCompleted
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Publisher{conn: c, subject: subject, log: log}
}

func (p *Publisher) Deliver(ctx context.Context, ev orchestrator.Evaluation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(completed(ev))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	p.log.WithFields(logrus.Fields{"subject": p.subject, "evaluation_id": ev.ID}).Debug("evaluation published")
	return nil
}

func (p *Publisher) Close() { p.conn.Close() }
