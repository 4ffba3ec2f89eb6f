package quizzo

import (
	"fmt"
	"sort"
)

// helpKey is reserved. Looking it up always fails with ErrNotImplemented,
// whatever the registry holds. Replace the guard in GetCommand once a help
// command exists.
const helpKey = "help"

// Entry pairs a command name with its handler.
type Entry struct {
	Name    string
	Command Command
}

// Registry is an immutable name to Command mapping. It holds no locks since
// nothing writes to it after construction.
type Registry struct {
	commands map[string]Command
}

// NewRegistry builds a registry from entries. Names are matched exactly,
// so "ping" and "Ping" are distinct keys.
func NewRegistry(entries ...Entry) (*Registry, error) {
	commands := make(map[string]Command, len(entries))
	for _, e := range entries {
		if e.Command == nil {
			return nil, fmt.Errorf("command %q: nil handler", e.Name)
		}
		if _, exists := commands[e.Name]; exists {
			return nil, fmt.Errorf("command %q: %w", e.Name, ErrDuplicateCommand)
		}
		commands[e.Name] = e.Command
	}
	return &Registry{commands: commands}, nil
}

// NewDefaultRegistry returns the bot's fixed command set.
func NewDefaultRegistry(board Scoreboard) *Registry {
	r, err := NewRegistry(
		Entry{Name: "leaderboard", Command: NewLeaderboardCommand(board)},
		Entry{Name: "ping", Command: NewPingCommand()},
		Entry{Name: "start", Command: NewStartCommand(board)},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// GetCommand queries for the command registered under key. An unknown key
// reports ok == false with a nil error; only the reserved "help" key fails.
func (r *Registry) GetCommand(key string) (cmd Command, ok bool, err error) {
	if key == helpKey {
		return nil, false, ErrNotImplemented
	}
	cmd, ok = r.commands[key]
	return cmd, ok, nil
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
