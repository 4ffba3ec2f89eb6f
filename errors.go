package quizzo

import "errors"

var (
	ErrNotImplemented        = errors.New("not yet implemented")
	ErrDuplicateCommand      = errors.New("command already registered")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidMessage        = errors.New("invalid message")
	ErrPublishFailed         = errors.New("failed to publish message")
	ErrSubscribeFailed       = errors.New("failed to subscribe to channel")
	ErrTransportNotConnected = errors.New("transport not connected")
	ErrBotAlreadyStarted     = errors.New("bot already started")
)
