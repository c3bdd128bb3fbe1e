package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type fakeStore struct {
	mu    sync.Mutex
	logs  []models.AuditLog
	fail  bool
	block chan struct{}
}

func (s *fakeStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if s.block != nil {
		<-s.block
	}
	if s.fail {
		return errors.New("db down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, *log)
	return nil
}

func (s *fakeStore) ListAuditLogs(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs, int64(len(s.logs)), nil
}

func TestDispatcherWritesAndDrains(t *testing.T) {
	store := &fakeStore{}
	nop := zerolog.Nop()
	d := NewDispatcher(New(store), &nop, 10)

	id := uint(7)
	d.Dispatch(Event{
		TenantID: 1,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &id,
		Metadata: map[string]any{"status": "pending"},
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	logs, total, _ := store.ListAuditLogs(ctx, Filter{})
	require.Equal(t, int64(1), total)
	assert.Equal(t, "appointment_created", logs[0].Action)
	assert.JSONEq(t, `{"status":"pending"}`, logs[0].Metadata)

	// after close events are ignored
	d.Dispatch(Event{TenantID: 1, Action: "late"})
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	store := &fakeStore{block: make(chan struct{})}
	nop := zerolog.Nop()
	d := NewDispatcher(New(store), &nop, 1)

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{TenantID: 1, Action: "x"})
	}
	close(store.block)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	_, total, _ := store.ListAuditLogs(ctx, Filter{})
	assert.Less(t, total, int64(10))
	assert.GreaterOrEqual(t, total, int64(1))
}

func TestDispatcherSurvivesStoreErrors(t *testing.T) {
	store := &fakeStore{fail: true}
	nop := zerolog.Nop()
	d := NewDispatcher(New(store), &nop, 5)

	d.Dispatch(Event{TenantID: 1, Action: "x"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, d.Close(ctx))
}
