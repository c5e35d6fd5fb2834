package secondary

import (
	"context"
	"time"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// StatusRepository publishes the miner's heartbeat record
type StatusRepository interface {
	// SaveStatus stores status, replacing the previous record for the same session
	SaveStatus(ctx context.Context, status domain.MinerStatus) error

	// GetStatus loads the record of a session. A missing record is (nil, nil).
	GetStatus(ctx context.Context, sessionID string) (*domain.MinerStatus, error)

	// RemoveStaleSessions drops index entries whose records expired before cutoff
	RemoveStaleSessions(ctx context.Context, cutoff time.Time) error
}
