package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/internal/notify"
	"github.com/stayvista/backend/pkg/queue"
)

type fakeSink struct {
	mu   sync.Mutex
	sent []notify.Message
	fail map[string]bool
}

func (s *fakeSink) Send(_ context.Context, m notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[m.To] {
		return errors.New("mailbox unavailable")
	}
	s.sent = append(s.sent, m)
	return nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeLogs struct {
	mu      sync.Mutex
	entries []models.NotificationLog
}

func (l *fakeLogs) Insert(_ context.Context, e *models.NotificationLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, *e)
	return nil
}

func (l *fakeLogs) snapshot() []models.NotificationLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.NotificationLog(nil), l.entries...)
}

func job(t *testing.T, p queue.NotificationPayload) *queue.Job {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return &queue.Job{ID: uuid.NewString(), Type: queue.JobTypeNotification, Payload: raw}
}

func TestProcess_SentAndLogged(t *testing.T) {
	sink := &fakeSink{}
	logs := &fakeLogs{}
	p := NewNotificationProcessor(nil, sink, logs, nil, nil)
	bookingID := uuid.New()

	err := p.Process(context.Background(), job(t, queue.NotificationPayload{
		Kind: models.NotificationGuestConfirmation, BookingID: &bookingID,
		Recipient: "guest@example.com", Subject: "Booking Successful!", BodyHTML: "hi",
	}))
	require.NoError(t, err)

	require.Equal(t, 1, sink.count())
	assert.Equal(t, "Booking Successful!", sink.sent[0].Subject)
	entries := logs.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, models.NotificationStatusSent, entries[0].Status)
	assert.Equal(t, bookingID, *entries[0].BookingID)
}

func TestProcess_FailureLoggedAndReturned(t *testing.T) {
	sink := &fakeSink{fail: map[string]bool{"host@example.com": true}}
	logs := &fakeLogs{}
	p := NewNotificationProcessor(nil, sink, logs, nil, nil)

	err := p.Process(context.Background(), job(t, queue.NotificationPayload{
		Kind: models.NotificationHostNotice, Recipient: "host@example.com",
	}))
	assert.True(t, errors.Is(err, models.ErrExternal))
	entries := logs.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, models.NotificationStatusFailed, entries[0].Status)
	assert.Contains(t, entries[0].Error, "mailbox unavailable")
}

func TestProcess_UnknownType(t *testing.T) {
	p := NewNotificationProcessor(nil, &fakeSink{}, nil, nil, nil)
	assert.Error(t, p.Process(context.Background(), &queue.Job{Type: "other"}))
}

// One failed delivery goes to the DLQ without blocking the next job.
func TestRun_DrainsQueueAtMostOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	q := queue.NewQueue(client, 1, nil)
	ctx := context.Background()

	require.NoError(t, q.EnqueueNotification(ctx, queue.NotificationPayload{Kind: models.NotificationGuestConfirmation, Recipient: "guest@example.com"}))
	require.NoError(t, q.EnqueueNotification(ctx, queue.NotificationPayload{Kind: models.NotificationHostNotice, Recipient: "host@example.com"}))

	sink := &fakeSink{fail: map[string]bool{"guest@example.com": true}}
	logs := &fakeLogs{}
	p := NewNotificationProcessor(q, sink, logs, nil, nil)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		p.Run(runCtx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(logs.snapshot()) == 2 }, 5*time.Second, 20*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 1, sink.count())
	n, err := q.Len(ctx, queue.QueueDLQ)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = q.Len(ctx, queue.QueueNotifications)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
