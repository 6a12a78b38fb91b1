package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/metrics"
	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/internal/notify"
	"github.com/stayvista/backend/pkg/queue"
)

// JobQueue is the queue surface the processor drains.
type JobQueue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) (bool, error)
}

// LogWriter records delivery attempts.
type LogWriter interface {
	Insert(ctx context.Context, l *models.NotificationLog) error
}

// NotificationProcessor delivers queued notifications and logs each attempt.
type NotificationProcessor struct {
	queue   JobQueue
	sink    notify.Sink
	logs    LogWriter
	metrics metrics.Recorder
	backoff time.Duration
	logger  *zap.Logger
}

// NewNotificationProcessor creates a notification processor. logs and rec may be nil.
func NewNotificationProcessor(q JobQueue, sink notify.Sink, logs LogWriter, rec metrics.Recorder, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &NotificationProcessor{queue: q, sink: sink, logs: logs, metrics: rec, backoff: queue.RetryBackoff, logger: logger}
}

// Process delivers one notification job.
func (p *NotificationProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeNotification {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.NotificationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	sendErr := p.sink.Send(ctx, notify.Message{
		To:      payload.Recipient,
		Subject: payload.Subject,
		HTML:    payload.BodyHTML,
	})

	entry := &models.NotificationLog{
		BookingID: payload.BookingID,
		Kind:      payload.Kind,
		Recipient: payload.Recipient,
		Subject:   payload.Subject,
		Status:    models.NotificationStatusSent,
	}
	if sendErr != nil {
		entry.Status = models.NotificationStatusFailed
		entry.Error = sendErr.Error()
	}
	p.metrics.RecordNotification(payload.Kind, entry.Status)
	if p.logs != nil {
		if err := p.logs.Insert(ctx, entry); err != nil {
			p.logger.Error("write notification log failed", zap.Error(err), zap.String("job_id", job.ID))
		}
	}

	if sendErr != nil {
		return fmt.Errorf("%w: %v", models.ErrExternal, sendErr)
	}
	p.logger.Info("notification delivered",
		zap.String("job_id", job.ID),
		zap.String("kind", payload.Kind),
		zap.String("recipient", payload.Recipient),
	)
	return nil
}

// Run starts the worker loop: dequeue, process, retry or dead-letter on error.
func (p *NotificationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx, queue.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			requeued, reErr := p.queue.Retry(ctx, job)
			if reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			if requeued {
				p.sleep(ctx)
			}
		}
	}
}

func (p *NotificationProcessor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
