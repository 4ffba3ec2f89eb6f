package quizzo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// fakeMessage records replies instead of sending them
type fakeMessage struct {
	id        string
	channelID string
	authorID  string
	author    string
	content   string
	sentAt    time.Time
	replyErr  error

	mu      sync.Mutex
	replies []string
}

func newFakeMessage(content string) *fakeMessage {
	return &fakeMessage{
		id:        "m1",
		channelID: "c1",
		authorID:  "u1",
		author:    "alice",
		content:   content,
	}
}

func (m *fakeMessage) ID() string           { return m.id }
func (m *fakeMessage) ChannelID() string    { return m.channelID }
func (m *fakeMessage) AuthorID() string     { return m.authorID }
func (m *fakeMessage) AuthorName() string   { return m.author }
func (m *fakeMessage) Content() string      { return m.content }
func (m *fakeMessage) Timestamp() time.Time { return m.sentAt }

func (m *fakeMessage) Reply(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, text)
	return m.replyErr
}

func (m *fakeMessage) Replies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.replies))
	copy(result, m.replies)
	return result
}

// memoryScoreboard is an in-process Scoreboard
type memoryScoreboard struct {
	mu     sync.Mutex
	points map[string]int64
	names  map[string]string
	err    error
}

func newMemoryScoreboard() *memoryScoreboard {
	return &memoryScoreboard{
		points: make(map[string]int64),
		names:  make(map[string]string),
	}
}

func (s *memoryScoreboard) set(userID, name string, points int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[userID] = points
	s.names[userID] = name
}

func (s *memoryScoreboard) Enroll(ctx context.Context, userID, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	s.names[userID] = name
	if _, ok := s.points[userID]; ok {
		return false, nil
	}
	s.points[userID] = 0
	return true, nil
}

func (s *memoryScoreboard) Top(ctx context.Context, n int) ([]Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	standings := make([]Standing, 0, len(s.points))
	for id, pts := range s.points {
		standings = append(standings, Standing{UserID: id, Name: s.names[id], Points: pts})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		return standings[i].UserID < standings[j].UserID
	})
	if len(standings) > n {
		standings = standings[:n]
	}
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings, nil
}

var errBoardDown = errors.New("board unavailable")

// stubCommand counts executions and returns err
type stubCommand struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (c *stubCommand) Help() Help {
	return Help{Description: "stub", Usage: "stub [args]"}
}

func (c *stubCommand) Execute(ctx context.Context, msg Message, args []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, args)
	return c.err
}

func (c *stubCommand) Calls() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.calls...)
}
