package status

import (
	"context"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

// IStatusService assembles the externally visible state of the miner
type IStatusService interface {
	// Status is a full report: identity, connection, threads, throughput
	Status(ctx context.Context) domain.MinerStatus

	// Threads reports every running compute thread
	Threads(ctx context.Context) []domain.ThreadStatus

	// Stats is the last closed throughput window
	Stats(ctx context.Context) domain.StatsSnapshot
}
