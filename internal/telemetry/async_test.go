package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"movie-booking-admin/backend/internal/telemetry/domain"
)

// mockEventEmitter implements EventEmitter for tests.
type mockEventEmitter struct {
	mu      sync.Mutex
	events  []*domain.Event
	emitErr error
	done    chan struct{}
}

func newMockEmitter(err error) *mockEventEmitter {
	return &mockEventEmitter{emitErr: err, done: make(chan struct{}, 8)}
}

func (m *mockEventEmitter) Emit(ctx context.Context, event *domain.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.emitErr
}

func (m *mockEventEmitter) getEvents() []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Event(nil), m.events...)
}

func waitEmit(t *testing.T, m *mockEventEmitter) {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("emit did not happen")
	}
}

func TestEmitAsync_NilEmitterOrEvent(t *testing.T) {
	EmitAsync(nil, domain.NewEvent(domain.EventLogout, "u1", nil), nil)

	m := newMockEmitter(nil)
	EmitAsync(m, nil, zap.NewNop())
	time.Sleep(10 * time.Millisecond)
	if n := len(m.getEvents()); n != 0 {
		t.Errorf("expected 0 events, got %d", n)
	}
}

func TestEmitAsync_SuccessfulEmit(t *testing.T) {
	m := newMockEmitter(nil)
	ev := domain.NewEvent(domain.EventLoginSuccess, "u1", map[string]string{"ip": "10.0.0.1"})

	EmitAsync(m, ev, zap.NewNop())
	waitEmit(t, m)

	got := m.getEvents()
	if len(got) != 1 || got[0].EventType != domain.EventLoginSuccess || got[0].Source != domain.SourceAuthService {
		t.Errorf("events = %+v", got)
	}
}

func TestEmitAsync_ErrorIsSwallowed(t *testing.T) {
	m := newMockEmitter(errors.New("kafka down"))
	EmitAsync(m, domain.NewEvent(domain.EventLogout, "u1", nil), zap.NewNop())
	waitEmit(t, m)
}

func TestFanout(t *testing.T) {
	ok := newMockEmitter(nil)
	bad := newMockEmitter(errors.New("boom"))
	f := Fanout{ok, nil, bad}

	err := f.Emit(context.Background(), domain.NewEvent(domain.EventSignup, "u1", nil))
	if err == nil {
		t.Fatal("Fanout should report the failing emitter")
	}
	if len(ok.getEvents()) != 1 || len(bad.getEvents()) != 1 {
		t.Error("every emitter should receive the event")
	}
}
