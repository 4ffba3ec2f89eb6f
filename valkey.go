package quizzo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/valkey-io/valkey-go"
)

// Envelope is the JSON form of a chat message relayed over valkey.
type Envelope struct {
	ID         string    `json:"id"`
	ChannelID  string    `json:"channel_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// ReplyEnvelope is published on the reply channel for every relayed reply.
type ReplyEnvelope struct {
	ReplyTo   string `json:"reply_to"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

// ReplyChannel returns the channel replies are published on for channel.
func ReplyChannel(channel string) string {
	return channel + ":replies"
}

// ValkeyTransport relays chat messages through a valkey pub/sub channel so
// that other processes can feed the bot.
type ValkeyTransport struct {
	client       valkey.Client
	channel      string
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.RWMutex
	isSubscribed bool
	connected    bool
	msgChan      chan Message
	closedChan   chan struct{}
	once         sync.Once
	options      Options
}

// Publish relays env to every bot subscribed to the channel
func (v *ValkeyTransport) Publish(ctx context.Context, env Envelope) error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.connected {
		return ErrTransportNotConnected
	}

	return v.publish(ctx, v.channel, env)
}

func (v *ValkeyTransport) publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	cmd := v.client.B().Publish().Channel(channel).Message(string(data)).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	return nil
}

// Subscribe starts subscribing to the valkey channel
func (v *ValkeyTransport) Subscribe(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.isSubscribed {
		return nil
	}

	if !v.connected {
		return ErrTransportNotConnected
	}

	go v.subscriptionLoop()

	v.isSubscribed = true
	return nil
}

// subscriptionLoop keeps a subscription open until the transport closes
func (v *ValkeyTransport) subscriptionLoop() {
	defer func() {
		v.mu.Lock()
		v.isSubscribed = false
		close(v.msgChan)
		v.mu.Unlock()
	}()

	log := v.options.Logger.WithField("channel", v.channel)
	retryDelay := 100 * time.Millisecond
	maxRetryDelay := 30 * time.Second
	subscriber := v.client.B().Subscribe().Channel(v.channel).Build()

	for {
		if v.shouldStop() {
			return
		}

		// Blocks until an error occurs or the context is cancelled
		err := v.client.Receive(v.ctx, subscriber, v.handleMessage)

		if err != nil {
			if v.shouldStop() {
				return
			}

			log.WithError(err).WithField("retry_in", retryDelay).Warn("subscription lost")
			time.Sleep(retryDelay)
			retryDelay *= 2
			if retryDelay > maxRetryDelay {
				retryDelay = maxRetryDelay
			}
			continue
		}

		if v.shouldStop() {
			return
		}

		retryDelay = 100 * time.Millisecond
		time.Sleep(100 * time.Millisecond)
	}
}

// handleMessage decodes one relayed message
func (v *ValkeyTransport) handleMessage(msg valkey.PubSubMessage) {
	if msg.Channel != v.channel {
		return
	}

	var env Envelope
	if err := json.Unmarshal([]byte(msg.Message), &env); err != nil {
		v.reportError(fmt.Errorf("%w: %v", ErrInvalidMessage, err))
		return
	}
	if env.ChannelID == "" || env.Content == "" {
		v.reportError(fmt.Errorf("%w: channel_id and content are required", ErrInvalidMessage))
		return
	}

	select {
	case v.msgChan <- &relayedMessage{env: env, transport: v}:
	case <-v.closedChan:
		return
	case <-v.ctx.Done():
		return
	default:
		v.options.Logger.WithFields(logrus.Fields{
			"channel": v.channel,
			"id":      env.ID,
		}).Warn("message buffer full, dropping message")
	}
}

func (v *ValkeyTransport) reportError(err error) {
	v.options.Logger.WithError(err).WithField("channel", v.channel).Warn("dropping relayed message")
	v.options.OnError(v.ctx, nil, err)
}

// Messages returns a channel that receives relayed messages
func (v *ValkeyTransport) Messages() <-chan Message {
	return v.msgChan
}

// Close shuts down the valkey transport and cleans up resources
func (v *ValkeyTransport) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.connected {
		return nil
	}

	v.once.Do(func() {
		close(v.closedChan)
		v.cancel()
		if v.client != nil {
			v.client.Close()
		}
		v.connected = false
	})

	return nil
}

// IsConnected returns true if the transport is connected and ready
func (v *ValkeyTransport) IsConnected() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.connected
}

func (v *ValkeyTransport) shouldStop() bool {
	select {
	case <-v.closedChan:
		return true
	case <-v.ctx.Done():
		return true
	default:
		return false
	}
}

type relayedMessage struct {
	env       Envelope
	transport *ValkeyTransport
}

func (m *relayedMessage) ID() string           { return m.env.ID }
func (m *relayedMessage) ChannelID() string    { return m.env.ChannelID }
func (m *relayedMessage) AuthorID() string     { return m.env.AuthorID }
func (m *relayedMessage) Content() string      { return m.env.Content }
func (m *relayedMessage) Timestamp() time.Time { return m.env.Timestamp }

func (m *relayedMessage) AuthorName() string {
	if m.env.AuthorName == "" {
		return m.env.AuthorID
	}
	return m.env.AuthorName
}

// Reply publishes a ReplyEnvelope on the reply channel.
func (m *relayedMessage) Reply(ctx context.Context, text string) error {
	return m.transport.publish(ctx, ReplyChannel(m.transport.channel), ReplyEnvelope{
		ReplyTo:   m.env.ID,
		ChannelID: m.env.ChannelID,
		Content:   text,
	})
}

// NewValkeyClient creates a new valkey client with common configuration
func NewValkeyClient(address string, options ...valkey.ClientOption) (valkey.Client, error) {
	var clientOption valkey.ClientOption
	if len(options) > 0 {
		clientOption = options[0]
	}
	if len(clientOption.InitAddress) == 0 {
		clientOption.InitAddress = []string{address}
	}

	client, err := valkey.NewClient(clientOption)
	if err != nil {
		return nil, fmt.Errorf("connect to valkey at %s: %w", address, err)
	}

	return client, nil
}

// NewValkeyTransport creates a relay transport on channel. The transport
// owns client and closes it on Close.
func NewValkeyTransport(client valkey.Client, channel string, opts ...Option) *ValkeyTransport {
	ctx, cancel := context.WithCancel(context.Background())
	options := newOptions(opts)

	return &ValkeyTransport{
		client:     client,
		channel:    channel,
		ctx:        ctx,
		cancel:     cancel,
		connected:  true,
		msgChan:    make(chan Message, options.MsgBufferSize),
		closedChan: make(chan struct{}),
		options:    options,
	}
}
