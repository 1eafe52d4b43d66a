// Package notify publishes synchronization reports as NATS events so
// downstream catalog consumers can react to dataset changes.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/graphsync/sync"
)

// ReportEvent is the published message format.
type ReportEvent struct {
	Added     []string  `json:"added"`
	Deleted   []string  `json:"deleted"`
	Modified  []string  `json:"modified"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes reports on a NATS subject. A nil Publisher is a
// no-op, so callers need no enabled-check at the publish site.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// Connect creates a publisher connected to the given server.
func Connect(url, subject string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name("graphsync"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return &Publisher{conn: conn, subject: subject, logger: logger}, nil
}

// PublishReport publishes the report. Publishing is best-effort relative to
// the sync itself: a failure here is returned but the remote store is
// already consistent.
func (p *Publisher) PublishReport(report *sync.Report) error {
	if p == nil {
		return nil
	}
	event := ReportEvent{
		Added:     report.Added,
		Deleted:   report.Deleted,
		Modified:  report.Modified,
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal report event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	p.logger.Debug("published sync report", slog.String("subject", p.subject))
	return nil
}

// Close flushes and closes the connection. Safe on nil.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	_ = p.conn.Flush()
	p.conn.Close()
}
