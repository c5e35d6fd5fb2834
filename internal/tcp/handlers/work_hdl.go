package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/workmanager"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/codec"
)

var _ primary.MessageHandler = (*WorkHandler)(nil)

// WorkHandler routes Work packets to the compute threads
type WorkHandler struct {
	WorkManager workmanager.IWorkManager
	Logger      primary.Logger
}

// HandleMessage implements the MessageHandler interface. Work for a thread
// that is not running is dropped and the connection stays up.
func (h *WorkHandler) HandleMessage(ctx context.Context, packet codec.Packet) error {
	work, ok := packet.(*codec.Work)
	if !ok {
		return fmt.Errorf("work handler got %s", packet.Kind())
	}

	err := h.WorkManager.DispatchWork(ctx, work.WorkAssignment)
	if errors.Is(err, workmanager.ErrNoSuchThread) {
		h.Logger.Error("Work for unknown thread dropped", "thread", work.Thread, "error", err)
		return nil
	}
	return err
}
