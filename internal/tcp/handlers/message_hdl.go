package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/codec"
)

var _ primary.MessageHandler = (*ServerMessageHandler)(nil)

// ServerMessageHandler shows operator messages from the pool
type ServerMessageHandler struct {
	Out    io.Writer
	Logger primary.Logger
}

// HandleMessage implements the MessageHandler interface
func (h *ServerMessageHandler) HandleMessage(_ context.Context, packet codec.Packet) error {
	msg, ok := packet.(*codec.Message)
	if !ok {
		return fmt.Errorf("message handler got %s", packet.Kind())
	}

	h.Logger.Info("Server message", "text", msg.Text)
	if h.Out != nil {
		fmt.Fprintf(h.Out, "Server Message: %s\n", msg.Text)
	}
	return nil
}
