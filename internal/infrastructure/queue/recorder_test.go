package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nimbushr/expense-system/internal/core/ports"
)

type stubAuditStore struct {
	mu        sync.Mutex
	events    []ports.AuditEvent
	appendErr error
}

func (s *stubAuditStore) Append(_ context.Context, event ports.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.events = append(s.events, event)
	return nil
}

func (s *stubAuditStore) snapshot() []ports.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestRecorder_PersistsAllEvents(t *testing.T) {
	store := &stubAuditStore{}
	rec := NewRecorder(4, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	const n = 50
	for i := 0; i < n; i++ {
		rec.Record(ports.AuditEvent{
			ActorID: int64(i % 7),
			Action:  ports.ActionApproveRequest,
			Result:  ports.ResultSuccess,
			At:      time.Now().UTC(),
		})
	}

	waitFor(t, func() bool { return len(store.snapshot()) == n })
}

func TestRecorder_PreservesPerActorOrder(t *testing.T) {
	store := &stubAuditStore{}
	rec := NewRecorder(4, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	const actorID = int64(42)
	const n = 20
	base := time.Now().UTC()
	for i := 0; i < n; i++ {
		rec.Record(ports.AuditEvent{
			ActorID:  actorID,
			Action:   ports.ActionSubmitRequest,
			TargetID: int64(i),
			Result:   ports.ResultSuccess,
			At:       base.Add(time.Duration(i) * time.Millisecond),
		})
	}

	waitFor(t, func() bool { return len(store.snapshot()) == n })

	var last int64 = -1
	for _, e := range store.snapshot() {
		if e.TargetID <= last {
			t.Fatalf("per-actor order broken: %d after %d", e.TargetID, last)
		}
		last = e.TargetID
	}
}

func TestRecorder_KeepsRunningAfterStoreFailure(t *testing.T) {
	store := &stubAuditStore{appendErr: errors.New("mongo unavailable")}
	rec := NewRecorder(1, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	rec.Record(ports.AuditEvent{ActorID: 1, Action: ports.ActionLogIn, Result: ports.ResultSuccess, At: time.Now().UTC()})

	// Heal the store and make sure the worker is still consuming.
	store.mu.Lock()
	store.appendErr = nil
	store.mu.Unlock()

	rec.Record(ports.AuditEvent{ActorID: 1, Action: ports.ActionLogOut, Result: ports.ResultSuccess, At: time.Now().UTC()})
	waitFor(t, func() bool { return len(store.snapshot()) == 1 })
}
