package primary

import (
	"context"

	"github.com/RapidPrime/ReferenceClient/internal/tcp/codec"
)

// MessageHandler defines an interface for handling inbound packets of one kind
type MessageHandler interface {
	HandleMessage(ctx context.Context, packet codec.Packet) error
}

// MessagePublisher puts an outbound packet on the current connection
type MessagePublisher interface {
	PublishMessage(ctx context.Context, packet codec.Packet) error
}
