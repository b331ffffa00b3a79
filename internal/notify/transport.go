// Package notify defines the messaging transport used to publish catalog
// messages and its implementations.
package notify

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// Message is the content of one channel message.
type Message struct {
	Text    string
	Buttons [][]domain.LinkButton
}

// EditOutcome is the result of an in-place edit attempt.
type EditOutcome int

// Edit outcomes. NotEditable means the message must be re-sent instead.
const (
	Edited EditOutcome = iota
	NotEditable
)

// String implements fmt.Stringer.
func (o EditOutcome) String() string {
	switch o {
	case Edited:
		return "edited"
	case NotEditable:
		return "not_editable"
	default:
		return fmt.Sprintf("EditOutcome(%d)", int(o))
	}
}

// Transport publishes, edits and deletes channel messages. Message IDs are
// opaque strings owned by the transport.
type Transport interface {
	Send(ctx context.Context, msg Message) (string, error)
	Edit(ctx context.Context, id string, msg Message) (EditOutcome, error)
	Delete(ctx context.Context, id string) error
}

// Ephemeral is implemented by transports whose message IDs do not refer to
// published messages. The engine never writes such IDs to the ledger.
type Ephemeral interface {
	Ephemeral() bool
}

// Linker builds a public link to a published message.
type Linker interface {
	Link(id string) string
}

// ChannelLinker links messages in a Telegram channel. Private channels are
// addressed by their numeric ID, public ones by @username.
type ChannelLinker struct {
	ChatID string
}

// Link returns the t.me URL for message id, or "" when id is empty.
func (l ChannelLinker) Link(id string) string {
	if id == "" {
		return ""
	}
	if name, ok := strings.CutPrefix(l.ChatID, "@"); ok {
		return fmt.Sprintf("https://t.me/%s/%s", name, id)
	}
	chat := strings.TrimPrefix(l.ChatID, "-100")
	chat = strings.TrimPrefix(chat, "-")
	return fmt.Sprintf("https://t.me/c/%s/%s", chat, id)
}
