package quizzo

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// Standing is one player's position on the leaderboard.
type Standing struct {
	Rank   int
	UserID string
	Name   string
	Points int64
}

// Scoreboard stores player points.
type Scoreboard interface {
	// Enroll adds the user with zero points. It reports false if the user
	// was already on the board; the stored display name is refreshed either way.
	Enroll(ctx context.Context, userID, name string) (bool, error)

	// Top returns up to n standings, highest points first.
	Top(ctx context.Context, n int) ([]Standing, error)
}

// ValkeyScoreboard keeps points in a sorted set and display names in a hash.
type ValkeyScoreboard struct {
	client valkey.Client
	scores string
	names  string
}

// NewValkeyScoreboard stores the board under key and key+":names".
func NewValkeyScoreboard(client valkey.Client, key string) *ValkeyScoreboard {
	return &ValkeyScoreboard{
		client: client,
		scores: key,
		names:  key + ":names",
	}
}

func (s *ValkeyScoreboard) Enroll(ctx context.Context, userID, name string) (bool, error) {
	cmds := valkey.Commands{
		s.client.B().Zadd().Key(s.scores).Nx().ScoreMember().ScoreMember(0, userID).Build(),
		s.client.B().Hset().Key(s.names).FieldValue().FieldValue(userID, name).Build(),
	}
	resps := s.client.DoMulti(ctx, cmds...)

	added, err := resps[0].AsInt64()
	if err != nil {
		return false, fmt.Errorf("enroll %s: %w", userID, err)
	}
	if err := resps[1].Error(); err != nil {
		return false, fmt.Errorf("store name for %s: %w", userID, err)
	}
	return added == 1, nil
}

func (s *ValkeyScoreboard) Top(ctx context.Context, n int) ([]Standing, error) {
	if n <= 0 {
		return nil, nil
	}

	cmd := s.client.B().Zrange().Key(s.scores).Min("0").Max(fmt.Sprint(n - 1)).Rev().Withscores().Build()
	scores, err := s.client.Do(ctx, cmd).AsZScores()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	if len(scores) == 0 {
		return nil, nil
	}

	ids := make([]string, len(scores))
	for i, z := range scores {
		ids[i] = z.Member
	}
	names, err := s.client.Do(ctx, s.client.B().Hmget().Key(s.names).Field(ids...).Build()).ToArray()
	if err != nil {
		return nil, fmt.Errorf("read player names: %w", err)
	}

	standings := make([]Standing, len(scores))
	for i, z := range scores {
		standings[i] = Standing{Rank: i + 1, UserID: z.Member, Name: z.Member, Points: int64(z.Score)}
		if i < len(names) {
			// Missing names come back as nil; keep the user id then.
			if name, err := names[i].ToString(); err == nil && name != "" {
				standings[i].Name = name
			}
		}
	}
	return standings, nil
}
