package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/models"
	"github.com/vidtube/vidtube/internal/repository"
	"github.com/vidtube/vidtube/pkg/logger"
	"github.com/vidtube/vidtube/pkg/media"
	"github.com/vidtube/vidtube/pkg/queue"
)

// parseID turns a path or token id into a uuid, reporting the field by name.
func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errs.InvalidArgument(fmt.Sprintf("Invalid %s", field))
	}
	return id, nil
}

// parseOptionalID treats an empty value as "no id".
func parseOptionalID(raw, field string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, nil
	}
	return parseID(raw, field)
}

func ensureOwner(entity models.Owned, callerID uuid.UUID, message string) error {
	if !models.IsOwner(entity, callerID) {
		return errs.Forbidden(message)
	}
	return nil
}

// publish never fails the caller; a lost event only delays cache refreshes.
func publish(ctx context.Context, producer queue.Publisher, log *logger.Logger, key string, event queue.Event) {
	if producer == nil {
		return
	}
	if err := producer.Publish(ctx, key, event); err != nil {
		log.WithError(err).WithField("event_type", event.Type).Error("Failed to publish event")
	}
}

// discardMedia removes uploaded objects that no record points at any more.
// Objects that cannot be removed are reported as orphaned.
func discardMedia(ctx context.Context, store media.Store, producer queue.Publisher, log *logger.Logger, reason string, urls ...string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := store.Delete(ctx, u); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"url":    u,
				"reason": reason,
			}).Warn("Failed to delete media")
			publish(ctx, producer, log, u, queue.NewEvent(queue.EventMediaOrphaned, queue.MediaEventData{URL: u, Reason: reason}))
		}
	}
}

// visibleVideo 草稿只对作者可见, 其他人一律视为不存在
func visibleVideo(ctx context.Context, videoRepo *repository.VideoRepository, id, viewer uuid.UUID) (*models.Video, error) {
	video, err := videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Internal(err, "Failed to get video")
	}
	if video == nil || (!video.IsPublished && video.OwnerID != viewer) {
		return nil, errs.NotFound("Video not found")
	}
	return video, nil
}
