package quizzo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// DiscordTransport receives messages from the Discord gateway.
type DiscordTransport struct {
	session       *discordgo.Session
	mu            sync.RWMutex
	isSubscribed  bool
	connected     bool
	removeHandler func()
	msgChan       chan Message
	once          sync.Once
	options       Options
}

// Subscribe opens the gateway connection and starts forwarding messages
func (d *DiscordTransport) Subscribe(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isSubscribed {
		return nil
	}

	if !d.connected {
		return ErrTransportNotConnected
	}

	d.removeHandler = d.session.AddHandler(d.handleMessageCreate)
	if err := d.session.Open(); err != nil {
		d.removeHandler()
		return fmt.Errorf("%w: %v", ErrSubscribeFailed, err)
	}

	d.isSubscribed = true
	return nil
}

func (d *DiscordTransport) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	// Gateway handlers run on their own goroutines; holding the read lock
	// keeps Close from closing msgChan under an in-flight send.
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return
	}

	select {
	case d.msgChan <- &discordMessage{session: s, event: m}:
	default:
		d.options.Logger.WithFields(logrus.Fields{
			"channel": m.ChannelID,
			"id":      m.ID,
		}).Warn("message buffer full, dropping message")
	}
}

// Messages returns a channel that receives Discord messages
func (d *DiscordTransport) Messages() <-chan Message {
	return d.msgChan
}

// Close disconnects from the gateway
func (d *DiscordTransport) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	var err error
	d.once.Do(func() {
		if d.removeHandler != nil {
			d.removeHandler()
		}
		if d.isSubscribed {
			err = d.session.Close()
		}
		close(d.msgChan)
		d.connected = false
		d.isSubscribed = false
	})

	return err
}

// IsConnected returns true if the transport is connected and ready
func (d *DiscordTransport) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

type discordMessage struct {
	session *discordgo.Session
	event   *discordgo.MessageCreate
}

func (m *discordMessage) ID() string           { return m.event.ID }
func (m *discordMessage) ChannelID() string    { return m.event.ChannelID }
func (m *discordMessage) AuthorID() string     { return m.event.Author.ID }
func (m *discordMessage) AuthorName() string   { return m.event.Author.Username }
func (m *discordMessage) Content() string      { return m.event.Content }
func (m *discordMessage) Timestamp() time.Time { return m.event.Timestamp }

// Reply answers in the same channel, referencing the original message.
func (m *discordMessage) Reply(ctx context.Context, text string) error {
	_, err := m.session.ChannelMessageSendComplex(m.event.ChannelID, replySend(m.event, text), discordgo.WithContext(ctx))
	return err
}

// replySend builds a reply that pings no one. Replies may echo user text
// such as unknown command names or display names.
func replySend(event *discordgo.MessageCreate, text string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:         text,
		Reference:       event.Reference(),
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}
}

// NewDiscordSession creates a bot session with the intents needed to read commands.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
	return session, nil
}

// NewDiscordTransport creates a transport over session. The session is opened
// by Subscribe and closed by Close.
func NewDiscordTransport(session *discordgo.Session, opts ...Option) *DiscordTransport {
	options := newOptions(opts)
	return &DiscordTransport{
		session:   session,
		connected: true,
		msgChan:   make(chan Message, options.MsgBufferSize),
		options:   options,
	}
}
