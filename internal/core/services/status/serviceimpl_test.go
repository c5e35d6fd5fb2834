package status

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

type fakeConn struct{}

func (fakeConn) SessionID() string { return "3f6c1a52-9a43-4b8e-9d5c-1f0e2b7a8c11" }
func (fakeConn) Server() string    { return "10.0.0.1:38204" }
func (fakeConn) StateName() string { return "connected" }

type fakeThreads []domain.ThreadStatus

func (f fakeThreads) ThreadStatuses() []domain.ThreadStatus { return f }

type fakeStats domain.StatsSnapshot

func (f fakeStats) Latest() domain.StatsSnapshot { return domain.StatsSnapshot(f) }

func TestStatus(t *testing.T) {
	threads := fakeThreads{{Thread: 0, HasWork: true, Primorial: 13}, {Thread: 1}}
	snap := fakeStats{PrimesPerSec: 12.5, TotalTests: 99}
	svc := NewStatusService("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "rig", fakeConn{}, threads, snap)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return now }

	want := domain.MinerStatus{
		SessionID:  "3f6c1a52-9a43-4b8e-9d5c-1f0e2b7a8c11",
		Label:      "rig",
		Address:    "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		State:      "connected",
		Server:     "10.0.0.1:38204",
		Threads:    []domain.ThreadStatus(threads),
		Stats:      domain.StatsSnapshot(snap),
		ReportedAt: now,
	}
	if diff := cmp.Diff(want, svc.Status(context.Background())); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}
