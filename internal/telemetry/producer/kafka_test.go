package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"movie-booking-admin/backend/internal/telemetry/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed++
	return nil
}

func TestNewKafkaProducer_Disabled(t *testing.T) {
	p, err := NewKafkaProducer(nil, "auth-events", nil)
	require.NoError(t, err)
	require.Nil(t, p)

	p, err = NewKafkaProducer([]string{"localhost:9092"}, "", nil)
	require.NoError(t, err)
	require.Nil(t, p)

	var nilProducer *KafkaProducer
	require.NoError(t, nilProducer.Emit(context.Background(), domain.NewEvent(domain.EventLogout, "u1", nil)))
	require.NoError(t, nilProducer.Close())
}

func TestKafkaProducer_Emit(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaProducer{writer: w, topic: "auth-events", log: zap.NewNop()}

	ev := domain.NewEvent(domain.EventLoginSuccess, "u1", map[string]string{"ip": "10.0.0.1"})
	require.NoError(t, p.Emit(context.Background(), ev))
	require.Len(t, w.msgs, 1)
	require.Equal(t, []byte("u1"), w.msgs[0].Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	require.Equal(t, "login_success", got["eventType"])
	require.Equal(t, "u1", got["userId"])
	require.Equal(t, domain.SourceAuthService, got["source"])

	// Failed logins carry no user id and are written unkeyed.
	require.NoError(t, p.Emit(context.Background(), domain.NewEvent(domain.EventLoginFailure, "", nil)))
	require.Nil(t, w.msgs[1].Key)

	require.NoError(t, p.Emit(context.Background(), nil))
	require.Len(t, w.msgs, 2)

	require.NoError(t, p.Close())
	require.Equal(t, 1, w.closed)
}

func TestKafkaProducer_EmitError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &KafkaProducer{writer: w, topic: "auth-events", log: zap.NewNop()}
	require.Error(t, p.Emit(context.Background(), domain.NewEvent(domain.EventSignup, "u1", nil)))
}
