package handlers

import (
	"context"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/codec"
)

var _ primary.MessageHandler = (*AckHandler)(nil)

// AckHandler accepts HelloAck, Ack and Nop. None of them carry anything
// this client acts on.
type AckHandler struct {
	Logger primary.Logger
}

// HandleMessage implements the MessageHandler interface
func (h *AckHandler) HandleMessage(_ context.Context, packet codec.Packet) error {
	h.Logger.Debug("Packet acknowledged", "kind", packet.Kind().String())
	return nil
}
