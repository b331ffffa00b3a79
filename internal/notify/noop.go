package notify

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
)

// NoOpTransport implements Transport by logging discarded messages. It is
// used for dry runs and when no bot token is configured. Sent messages
// receive sequential local IDs that refer to nothing in the channel.
type NoOpTransport struct {
	log  *slog.Logger
	next atomic.Int64
}

// NewNoOpTransport creates a transport that only logs.
func NewNoOpTransport(log *slog.Logger) *NoOpTransport {
	return &NoOpTransport{log: log}
}

// Ephemeral reports that IDs from this transport must not be recorded.
func (*NoOpTransport) Ephemeral() bool { return true }

// Send logs msg and returns a local ID.
func (n *NoOpTransport) Send(_ context.Context, msg Message) (string, error) {
	id := "local-" + strconv.FormatInt(n.next.Add(1), 10)
	n.log.Debug("message discarded (no transport configured)",
		"message_id", id,
		"length", len(msg.Text),
		"buttons", len(msg.Buttons),
	)
	return id, nil
}

// Edit logs the edit and reports it as applied.
func (n *NoOpTransport) Edit(_ context.Context, id string, msg Message) (EditOutcome, error) {
	n.log.Debug("edit discarded (no transport configured)",
		"message_id", id,
		"length", len(msg.Text),
	)
	return Edited, nil
}

// Delete logs the deletion.
func (n *NoOpTransport) Delete(_ context.Context, id string) error {
	n.log.Debug("delete discarded (no transport configured)", "message_id", id)
	return nil
}
