package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vidtube/vidtube/pkg/logger"
	"github.com/vidtube/vidtube/pkg/media"
	"github.com/vidtube/vidtube/pkg/queue"
)

// StatsInvalidator drops cached channel totals.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context, channelID string) error
}

// EventWorker consumes domain events: it keeps dashboard caches fresh and
// retries deletion of media nothing points at any more.
type EventWorker struct {
	stats     StatsInvalidator
	store     media.Store
	consumers []*queue.KafkaConsumer
	logger    *logger.Logger

	deleteAttempts int
	backoff        time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEventWorker(stats StatsInvalidator, store media.Store, consumers []*queue.KafkaConsumer, logger *logger.Logger) *EventWorker {
	return &EventWorker{
		stats:          stats,
		store:          store,
		consumers:      consumers,
		logger:         logger,
		deleteAttempts: 3,
		backoff:        time.Second,
	}
}

func (w *EventWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting event worker...")

	ctx, w.cancel = context.WithCancel(ctx)
	for _, consumer := range w.consumers {
		consumer := consumer
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			err := consumer.Subscribe(ctx, func(msg queue.Message) error {
				return w.Handle(ctx, msg)
			})
			if err != nil && ctx.Err() == nil {
				w.logger.WithError(err).Error("Event consumer stopped with error")
			}
		}()
	}
	return nil
}

func (w *EventWorker) Stop() error {
	w.logger.Info("Stopping event worker...")
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()

	var firstErr error
	for _, consumer := range w.consumers {
		if err := consumer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Handle dispatches one message. Returned errors are logged by the consumer
// and the message is skipped.
func (w *EventWorker) Handle(ctx context.Context, msg queue.Message) error {
	event, err := queue.DecodeEvent(msg)
	if err != nil {
		return err
	}

	w.logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"timestamp":  event.Timestamp,
	}).Debug("Processing event")

	switch event.Type {
	case queue.EventVideoUploaded, queue.EventVideoDeleted, queue.EventVideoViewed:
		var data queue.VideoEventData
		if err := event.Bind(&data); err != nil {
			return err
		}
		return w.invalidate(ctx, data.OwnerID)
	case queue.EventLikeToggled:
		var data queue.LikeEventData
		if err := event.Bind(&data); err != nil {
			return err
		}
		return w.invalidate(ctx, data.OwnerID)
	case queue.EventSubscriptionToggled:
		var data queue.SubscriptionEventData
		if err := event.Bind(&data); err != nil {
			return err
		}
		return w.invalidate(ctx, data.ChannelID)
	case queue.EventTweetCreated, queue.EventTweetDeleted:
		var data queue.TweetEventData
		if err := event.Bind(&data); err != nil {
			return err
		}
		return w.invalidate(ctx, data.UserID)
	case queue.EventMediaOrphaned:
		var data queue.MediaEventData
		if err := event.Bind(&data); err != nil {
			return err
		}
		return w.deleteOrphan(ctx, data)
	case queue.EventUserRegistered, queue.EventCommentCreated:
		// 不影响统计
		return nil
	default:
		w.logger.WithField("event_type", event.Type).Warn("Unknown event type")
		return nil
	}
}

func (w *EventWorker) invalidate(ctx context.Context, channelID string) error {
	if channelID == "" {
		return fmt.Errorf("missing channel id in event data")
	}
	if err := w.stats.InvalidateStats(ctx, channelID); err != nil {
		return fmt.Errorf("failed to invalidate stats for %s: %w", channelID, err)
	}
	return nil
}

func (w *EventWorker) deleteOrphan(ctx context.Context, data queue.MediaEventData) error {
	if data.URL == "" {
		return fmt.Errorf("missing url in event data")
	}

	var err error
	for attempt := 1; attempt <= w.deleteAttempts; attempt++ {
		if err = w.store.Delete(ctx, data.URL); err == nil {
			w.logger.WithFields(map[string]interface{}{
				"url":     data.URL,
				"reason":  data.Reason,
				"attempt": attempt,
			}).Info("Orphaned media deleted")
			return nil
		}
		if attempt == w.deleteAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.backoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("failed to delete orphaned media %s after %d attempts: %w", data.URL, w.deleteAttempts, err)
}
