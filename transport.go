package quizzo

import "context"

// Transport delivers incoming chat messages to the bot.
// Replies travel back through Message.Reply, not through the transport.
type Transport interface {
	// Subscribe starts listening for messages
	Subscribe(ctx context.Context) error

	// Messages returns a channel that receives incoming messages.
	// This channel should be closed when the transport is closed
	Messages() <-chan Message

	// Close shuts down the transport and releases resources
	Close() error

	// IsConnected returns true if the transport is connected and ready
	IsConnected() bool
}
