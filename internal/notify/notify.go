// Package notify announces completed generations to other services.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/retry"
)

// Completed is the message published after each generation run.
type Completed struct {
	RunID      string    `json:"run_id"`
	Success    bool      `json:"success"`
	PostCount  int       `json:"post_count"`
	ErrorCount int       `json:"error_count"`
	FinishedAt time.Time `json:"finished_at"`
}

// Publisher delivers Completed messages.
type Publisher interface {
	Publish(ctx context.Context, msg Completed) error
	Close() error
}

// Nop discards every message.
type Nop struct{}

func (Nop) Publish(context.Context, Completed) error { return nil }
func (Nop) Close() error                             { return nil }

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes on a core NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
	policy  retry.Policy
}

// NewNATSPublisher connects to url. Reconnects are handled by the client;
// policy governs retries of a single failed publish.
func NewNATSPublisher(url, subject string, policy retry.Policy) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("vaultblog"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, foundation.WrapError(err, foundation.CategoryNotify, "connect to NATS").
			WithContext("subject", subject).
			Warning().
			Retryable().
			Build()
	}
	slog.Info("NATS publisher connected", logfields.Subject(subject))
	return &NATSPublisher{conn: nc, subject: subject, policy: policy}, nil
}

// Publish sends msg and waits for the server to acknowledge the flush.
// Failed attempts are retried according to the publisher's policy.
func (p *NATSPublisher) Publish(ctx context.Context, msg Completed) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return foundation.WrapError(err, foundation.CategoryNotify, "marshal notification").Build()
	}
	err = p.policy.Do(ctx, nil, func() error {
		if err := p.conn.Publish(p.subject, data); err != nil {
			return err
		}
		flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return p.conn.FlushWithContext(flushCtx)
	})
	if err != nil {
		return p.publishError(err, msg.RunID)
	}
	slog.Debug("Published generation notice", logfields.Subject(p.subject), logfields.RunID(msg.RunID))
	return nil
}

func (p *NATSPublisher) publishError(err error, runID string) error {
	return foundation.WrapError(err, foundation.CategoryNotify, "publish notification").
		WithContext("subject", p.subject).
		WithContext("run_id", runID).
		Warning().
		Retryable().
		Build()
}

// Close closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
