package quizzo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 25
)

type leaderboardCommand struct {
	board Scoreboard
}

// NewLeaderboardCommand returns the "leaderboard" command backed by board.
func NewLeaderboardCommand(board Scoreboard) Command {
	return &leaderboardCommand{board: board}
}

func (c *leaderboardCommand) Help() Help {
	return Help{
		Description: "Shows the players with the most points.",
		Usage:       fmt.Sprintf("leaderboard [count 1-%d]", maxLeaderboardSize),
	}
}

func (c *leaderboardCommand) Execute(ctx context.Context, msg Message, args []string) error {
	n := defaultLeaderboardSize
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 || v > maxLeaderboardSize {
			return fmt.Errorf("%w: count must be a number from 1 to %d, got %q", ErrInvalidArgument, maxLeaderboardSize, args[0])
		}
		n = v
	}

	standings, err := c.board.Top(ctx, n)
	if err != nil {
		return err
	}
	if len(standings) == 0 {
		return msg.Reply(ctx, "No one is on the leaderboard yet.")
	}

	var sb strings.Builder
	sb.WriteString("Leaderboard\n")
	for _, s := range standings {
		fmt.Fprintf(&sb, "%d. %s: %d\n", s.Rank, s.Name, s.Points)
	}
	return msg.Reply(ctx, strings.TrimSuffix(sb.String(), "\n"))
}
