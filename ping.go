package quizzo

import (
	"context"
	"fmt"
	"time"
)

type pingCommand struct {
	now func() time.Time
}

// NewPingCommand returns the "ping" command, which replies with the
// round-trip latency.
func NewPingCommand() Command {
	return &pingCommand{now: time.Now}
}

func (c *pingCommand) Help() Help {
	return Help{
		Description: "Checks that the bot is alive and reports its latency.",
		Usage:       "ping",
	}
}

func (c *pingCommand) Execute(ctx context.Context, msg Message, args []string) error {
	text := "Pong!"
	if sent := msg.Timestamp(); !sent.IsZero() {
		text = fmt.Sprintf("Pong! (%s)", c.now().Sub(sent).Round(time.Millisecond))
	}
	return msg.Reply(ctx, text)
}
