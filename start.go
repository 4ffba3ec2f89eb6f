package quizzo

import (
	"context"
	"fmt"
)

type startCommand struct {
	board Scoreboard
}

// NewStartCommand returns the "start" command, which enrols the author on board.
func NewStartCommand(board Scoreboard) Command {
	return &startCommand{board: board}
}

func (c *startCommand) Help() Help {
	return Help{
		Description: "Joins the quiz and puts you on the leaderboard.",
		Usage:       "start",
	}
}

func (c *startCommand) Execute(ctx context.Context, msg Message, args []string) error {
	added, err := c.board.Enroll(ctx, msg.AuthorID(), msg.AuthorName())
	if err != nil {
		return err
	}
	if !added {
		return msg.Reply(ctx, fmt.Sprintf("Welcome back, %s! You are already on the leaderboard.", msg.AuthorName()))
	}
	return msg.Reply(ctx, fmt.Sprintf("Welcome, %s! You are now on the leaderboard.", msg.AuthorName()))
}
