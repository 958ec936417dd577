// Package notify publishes build notifications.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// BuildCompleted is published after every daemon build that was not skipped.
type BuildCompleted struct {
	BuildID    string    `json:"build_id"`
	Outcome    string    `json:"outcome"`
	Pages      int       `json:"pages"`
	Posts      int       `json:"posts"`
	Published  int       `json:"published"`
	Commit     string    `json:"commit,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Added      []string  `json:"added,omitempty"`
	Changed    []string  `json:"changed,omitempty"`
	Removed    []string  `json:"removed,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Notifier delivers build notifications.
type Notifier interface {
	BuildCompleted(ctx context.Context, ev BuildCompleted) error
	Close()
}

// Noop drops every notification.
type Noop struct{}

func (Noop) BuildCompleted(context.Context, BuildCompleted) error { return nil }
func (Noop) Close()                                               {}

// conn is the part of *nats.Conn the notifier uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSNotifier publishes JSON events to a NATS subject.
type NATSNotifier struct {
	conn    conn
	subject string
}

// New connects to cfg.NATSURL. Without a URL it returns Noop.
func New(cfg config.NotifyConfig) (Notifier, error) {
	if cfg.NATSURL == "" {
		return Noop{}, nil
	}
	nc, err := nats.Connect(cfg.NATSURL,
		nats.Name("blogbuilder"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, errors.NotifyError("failed to connect to NATS").
			WithCause(err).WithContext("url", cfg.NATSURL).Build()
	}
	slog.Info("NATS notifier connected", slog.String("url", nc.ConnectedUrlRedacted()), logfields.Subject(cfg.Subject))
	return &NATSNotifier{conn: nc, subject: cfg.Subject}, nil
}

// BuildCompleted publishes ev and waits for the server to acknowledge the flush.
func (n *NATSNotifier) BuildCompleted(ctx context.Context, ev BuildCompleted) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.InternalError("failed to marshal build event").WithCause(err).Build()
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return errors.NotifyError("failed to publish build event").
			WithCause(err).WithContext("subject", n.subject).Build()
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return errors.NotifyError("failed to flush build event").
			WithCause(err).WithContext("subject", n.subject).Build()
	}
	slog.Debug("Build event published", logfields.Subject(n.subject), logfields.BuildID(ev.BuildID))
	return nil
}

// Close closes the NATS connection.
func (n *NATSNotifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
