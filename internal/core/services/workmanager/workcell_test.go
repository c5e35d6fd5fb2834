package workmanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/RapidPrime/ReferenceClient/internal/domain"
)

func TestWorkCellLastWriteWins(t *testing.T) {
	cell := NewWorkCell()
	a := domain.WorkAssignment{Thread: 0, Time: 100, Bits: 1}
	b := domain.WorkAssignment{Thread: 0, Time: 101, Bits: 2}

	if !cell.Put(a) || !cell.Put(b) {
		t.Fatal("Put rejected fresh work")
	}
	if !cell.HasNew() {
		t.Fatal("HasNew = false after Put")
	}

	got, err := cell.Wait(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if diff := cmp.Diff(b, got); diff != "" {
		t.Errorf("consumer saw (-want +got):\n%s", diff)
	}
	if _, ok := cell.TryTake(); ok {
		t.Error("superseded assignment was still delivered")
	}
	if cell.HasNew() {
		t.Error("HasNew = true after the only assignment was taken")
	}
}

func TestWorkCellDropsSameTime(t *testing.T) {
	cell := NewWorkCell()
	first := domain.WorkAssignment{Time: 500, Bits: 1}
	if !cell.Put(first) {
		t.Fatal("first Put rejected")
	}
	if _, ok := cell.TryTake(); !ok {
		t.Fatal("TryTake found nothing")
	}

	if cell.Put(domain.WorkAssignment{Time: 500, Bits: 9}) {
		t.Fatal("assignment with an unchanged time was accepted")
	}
	if cell.HasNew() {
		t.Fatal("duplicate marked the cell as having new work")
	}
	if !cell.Put(domain.WorkAssignment{Time: 501}) {
		t.Fatal("assignment with a new time was rejected")
	}
}

func TestWorkCellWaitWakesOnPut(t *testing.T) {
	cell := NewWorkCell()
	want := domain.WorkAssignment{Thread: 3, Time: 7}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cell.Put(want)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := cell.Wait(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestWorkCellWaitCancelled(t *testing.T) {
	cell := NewWorkCell()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cell.Wait(ctx, time.Millisecond); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
