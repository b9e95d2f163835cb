package pubsub

import "context"

// Pack is a keyed message. Messages with the same key keep their order on the
// broker.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
}

// NopPublisher drops every message. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, *Pack) error {
	return nil
}
