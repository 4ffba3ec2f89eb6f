package quizzo

import (
	"context"
	"time"
)

// Help is the human-readable metadata attached to a command.
type Help struct {
	Description string
	Usage       string
}

// Command is a named chat command handler
type Command interface {
	// Help returns the command's metadata. The value never changes.
	Help() Help

	// Execute runs the command for msg with the tokens following the command name.
	Execute(ctx context.Context, msg Message, args []string) error
}

// Message is an incoming chat message together with the means to reply to it.
// Transports provide their own implementation.
type Message interface {
	ID() string
	ChannelID() string
	AuthorID() string
	AuthorName() string
	Content() string

	// Timestamp is when the message was sent, or the zero time if unknown.
	Timestamp() time.Time

	Reply(ctx context.Context, text string) error
}
