package quizzo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Bot reads messages from a transport and dispatches them to registry commands
type Bot interface {
	Start(ctx context.Context) error
	Shutdown() error
	IsRunning() bool
	Dispatch(ctx context.Context, msg Message) error
}

type botImpl struct {
	registry  *Registry
	transport Transport
	options   Options
	ctx       context.Context
	cancel    context.CancelFunc
	stopRead  chan struct{}
	readWG    sync.WaitGroup
	wg        sync.WaitGroup
	started   bool
	mu        sync.RWMutex
}

// Start begins listening for messages from the transport
func (b *botImpl) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return ErrBotAlreadyStarted
	}

	if !b.transport.IsConnected() {
		return ErrTransportNotConnected
	}

	if err := b.transport.Subscribe(ctx); err != nil {
		return err
	}

	b.stopRead = make(chan struct{})
	b.readWG.Add(1)
	go func() {
		defer b.readWG.Done()
		b.processMessages(b.stopRead)
	}()

	b.started = true
	b.options.Logger.WithField("commands", b.registry.Names()).Info("bot started")
	return nil
}

// processMessages continuously processes incoming messages from transport
func (b *botImpl) processMessages(stop <-chan struct{}) {
	msgChan := b.transport.Messages()

	for {
		select {
		case msg, ok := <-msgChan:
			if !ok {
				return
			}

			// A slow command must not hold up the next message.
			b.wg.Add(1)
			go func(m Message) {
				defer b.wg.Done()
				_ = b.Dispatch(b.ctx, m)
			}(msg)

		case <-stop:
			return
		}
	}
}

// Dispatch resolves and runs the command named in msg. Messages without the
// command prefix are ignored. Unknown commands get a reply and a nil error.
func (b *botImpl) Dispatch(ctx context.Context, msg Message) error {
	name, args, ok := parseCommand(b.options.Prefix, msg.Content())
	if !ok {
		return nil
	}

	log := b.options.Logger.WithFields(logrus.Fields{
		"command": name,
		"channel": msg.ChannelID(),
		"author":  msg.AuthorID(),
	})

	cmd, found, err := b.registry.GetCommand(name)
	if err != nil {
		log.WithError(err).Warn("command lookup failed")
		b.options.OnError(ctx, msg, err)
		b.reply(ctx, log, msg, fmt.Sprintf("%s: %v", name, err))
		return err
	}
	if !found {
		log.Debug("unknown command")
		b.reply(ctx, log, msg, fmt.Sprintf("Unknown command: %s", name))
		return nil
	}

	log.Debug("executing command")
	if err := cmd.Execute(ctx, msg, args); err != nil {
		log.WithError(err).Error("command failed")
		b.options.OnError(ctx, msg, err)
		if errors.Is(err, ErrInvalidArgument) {
			b.reply(ctx, log, msg, fmt.Sprintf("%v\nUsage: %s", err, cmd.Help().Usage))
		}
		return fmt.Errorf("execute %s: %w", name, err)
	}
	return nil
}

func (b *botImpl) reply(ctx context.Context, log logrus.FieldLogger, msg Message, text string) {
	if err := msg.Reply(ctx, text); err != nil {
		log.WithError(err).Warn("failed to reply")
	}
}

// parseCommand splits content into a command name and its arguments.
func parseCommand(prefix, content string) (name string, args []string, ok bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(content[len(prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}

// IsRunning returns true if the bot is currently running
func (b *botImpl) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.started
}

// Shutdown gracefully shuts down the bot
func (b *botImpl) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started {
		return nil
	}

	// Stop reading first so in-flight commands can still reply over a live
	// transport with a live context.
	close(b.stopRead)
	b.readWG.Wait()
	b.wg.Wait()

	err := b.transport.Close()
	b.cancel()
	if err != nil {
		return err
	}

	b.started = false
	b.options.Logger.Info("bot stopped")
	return nil
}

// NewBot creates a bot serving registry commands over transport
func NewBot(registry *Registry, transport Transport, opts ...Option) Bot {
	ctx, cancel := context.WithCancel(context.Background())
	return &botImpl{
		registry:  registry,
		transport: transport,
		options:   newOptions(opts),
		ctx:       ctx,
		cancel:    cancel,
	}
}
