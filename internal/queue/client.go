package queue

import "context"

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Nop discards every message. Used when no queue driver is configured.
type Nop struct{}

func (Nop) Send(context.Context, Message) error { return nil }

var _ Client = Nop{}
