package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"movie-booking-admin/backend/internal/telemetry/domain"
)

func TestNewEventEmitter_NilProvider_ReturnsNoop(t *testing.T) {
	em := NewEventEmitter(nil)
	if em == nil {
		t.Fatal("NewEventEmitter(nil) returned nil")
	}
	if err := em.Emit(context.Background(), nil); err != nil {
		t.Errorf("noop Emit(ctx, nil): %v", err)
	}
	if err := em.Emit(context.Background(), domain.NewEvent(domain.EventLogout, "u1", nil)); err != nil {
		t.Errorf("noop Emit(ctx, event): %v", err)
	}
}

func TestEmit_NilEvent_ReturnsNil(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	if err := NewEventEmitter(provider).Emit(context.Background(), nil); err != nil {
		t.Errorf("Emit(ctx, nil): %v", err)
	}
}

// recordCapture stores the last Record passed to Emit for assertion.
type recordCapture struct {
	embedded.Logger
	rec   otellog.Record
	count int
}

func (r *recordCapture) Emit(_ context.Context, rec otellog.Record) {
	r.rec = rec
	r.count++
}

func (r *recordCapture) Enabled(context.Context, otellog.EnabledParameters) bool { return true }

func TestEmit_AttributeAndBodyMapping(t *testing.T) {
	capture := &recordCapture{}
	em := newEmitterWithLogger(capture)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	event := &domain.Event{
		EventType: domain.EventLoginFailure,
		Source:    domain.SourceAuthService,
		UserID:    "user1",
		Metadata:  map[string]string{"ip": "10.0.0.1"},
		CreatedAt: created,
	}
	if err := em.Emit(context.Background(), event); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	rec := capture.rec

	if got := string(rec.Body().AsBytes()); got != `{"ip":"10.0.0.1"}` {
		t.Errorf("body = %q", got)
	}
	if !rec.Timestamp().Equal(created) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp(), created)
	}

	attrs := make(map[string]string)
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	want := map[string]string{"user_id": "user1", "event_type": domain.EventLoginFailure, "source": domain.SourceAuthService}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %q = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestEmit_NoMetadataNoUser(t *testing.T) {
	capture := &recordCapture{}
	em := newEmitterWithLogger(capture)
	if err := em.Emit(context.Background(), &domain.Event{EventType: domain.EventSignup}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !capture.rec.Body().Empty() {
		t.Error("body should be empty without metadata")
	}
	if capture.rec.Timestamp().IsZero() {
		t.Error("timestamp should default to now")
	}
	capture.rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		if kv.Key == "user_id" {
			t.Error("user_id should be omitted when empty")
		}
		return true
	})
}
