package publishers

import (
	"context"
	"fmt"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/codec"
	"github.com/RapidPrime/ReferenceClient/internal/tcp/connectionmanager"
)

var _ primary.MessagePublisher = (*SubmissionPublisher)(nil)

// SubmissionPublisher sends submissions on the current pool connection
type SubmissionPublisher struct {
	ConnectionMgr *connectionmanager.ConnectionManager
	Logger        primary.Logger
}

func NewSubmissionPublisher(connectionMgr *connectionmanager.ConnectionManager, logger primary.Logger) *SubmissionPublisher {
	return &SubmissionPublisher{
		ConnectionMgr: connectionMgr,
		Logger:        logger,
	}
}

func (p *SubmissionPublisher) PublishMessage(ctx context.Context, packet codec.Packet) error {
	if packet.Kind() != codec.KindSubmission {
		return fmt.Errorf("submission publisher cannot send %s", packet.Kind())
	}

	if err := p.ConnectionMgr.Send(ctx, packet); err != nil {
		p.Logger.Error("Failed to send submission", "error", err)
		return err
	}
	return nil
}
