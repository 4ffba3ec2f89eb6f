package quizzo

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ErrorHandler is a user-provided callback for dispatch and transport errors.
// msg is nil when the failure happened before a message could be decoded.
type ErrorHandler func(ctx context.Context, msg Message, err error)
type Option func(*Options)

type Options struct {
	Prefix        string
	MsgBufferSize int
	OnError       ErrorHandler
	Logger        logrus.FieldLogger
}

func defaultOptions() Options {
	return Options{
		Prefix:        "!",
		MsgBufferSize: 100,
		OnError: func(ctx context.Context, msg Message, err error) {
			// Default: no-op
		},
		Logger: logrus.StandardLogger(),
	}
}

func newOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithPrefix sets the text a message must start with to be treated as a command.
func WithPrefix(prefix string) Option {
	return func(o *Options) {
		if prefix != "" {
			o.Prefix = prefix
		}
	}
}

func WithMsgBufferSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.MsgBufferSize = size
		}
	}
}

func WithOnError(handler ErrorHandler) Option {
	return func(o *Options) {
		if handler != nil {
			o.OnError = handler
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
