package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/models"
	"github.com/vidtube/vidtube/internal/repository"
	"github.com/vidtube/vidtube/internal/views"
	"github.com/vidtube/vidtube/pkg/logger"
	"github.com/vidtube/vidtube/pkg/media"
	"github.com/vidtube/vidtube/pkg/queue"
)

type VideoService struct {
	videoRepo   *repository.VideoRepository
	historyRepo *repository.WatchHistoryRepository
	composer    *views.Composer
	store       media.Store
	producer    queue.Publisher
	logger      *logger.Logger
}

func NewVideoService(videoRepo *repository.VideoRepository, historyRepo *repository.WatchHistoryRepository, composer *views.Composer, store media.Store, producer queue.Publisher, logger *logger.Logger) *VideoService {
	return &VideoService{
		videoRepo:   videoRepo,
		historyRepo: historyRepo,
		composer:    composer,
		store:       store,
		producer:    producer,
		logger:      logger,
	}
}

// PublishVideoRequest carries the form fields and the staged upload paths.
type PublishVideoRequest struct {
	Title         string
	Description   string
	IsPublished   *bool
	VideoPath     string
	ThumbnailPath string
}

// UpdateVideoRequest leaves empty fields untouched.
type UpdateVideoRequest struct {
	Title         string
	Description   string
	ThumbnailPath string
}

type ListVideosQuery struct {
	Page     views.Page
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

func (s *VideoService) Publish(ctx context.Context, ownerID string, req *PublishVideoRequest) (*models.Video, error) {
	owner, err := parseID(ownerID, "user id")
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, errs.InvalidArgument("Title and description are required")
	}
	if req.VideoPath == "" {
		return nil, errs.InvalidArgument("Video file is required")
	}
	if req.ThumbnailPath == "" {
		return nil, errs.InvalidArgument("Thumbnail is required")
	}

	videoAsset, err := s.store.Upload(ctx, req.VideoPath, media.CategoryVideo)
	if err != nil {
		return nil, errs.Internal(err, "Failed to upload video")
	}
	thumbnail, err := s.store.Upload(ctx, req.ThumbnailPath, media.CategoryThumbnail)
	if err != nil {
		discardMedia(ctx, s.store, s.producer, s.logger, "thumbnail upload failed", videoAsset.URL)
		return nil, errs.Internal(err, "Failed to upload thumbnail")
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	video := &models.Video{
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbnail.URL,
		Title:       title,
		Description: description,
		Duration:    videoAsset.Duration,
		IsPublished: published,
		OwnerID:     owner,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		discardMedia(ctx, s.store, s.producer, s.logger, "video insert failed", videoAsset.URL, thumbnail.URL)
		return nil, errs.Internal(err, "Failed to save video")
	}

	publish(ctx, s.producer, s.logger, owner.String(), queue.NewEvent(queue.EventVideoUploaded, queue.VideoEventData{
		VideoID: video.ID.String(),
		OwnerID: owner.String(),
		Title:   video.Title,
	}))

	s.logger.WithFields(map[string]interface{}{
		"video_id": video.ID,
		"owner_id": owner,
	}).Info("Video published successfully")
	return video, nil
}

func (s *VideoService) List(ctx context.Context, viewerID string, q ListVideosQuery) (*views.Paginated[views.VideoCard], error) {
	viewer, err := parseOptionalID(viewerID, "user id")
	if err != nil {
		return nil, err
	}
	owner, err := parseOptionalID(q.UserID, "userId")
	if err != nil {
		return nil, err
	}
	filter := views.VideoFilter{Query: q.Query, OwnerID: owner, ViewerID: viewer}
	return s.composer.ListVideos(ctx, filter, views.ParseSort(q.SortBy, q.SortType, views.VideoSortKeys), q.Page)
}

// Get counts the view and records it in the viewer's history before
// composing the detail, so the returned count includes this request.
func (s *VideoService) Get(ctx context.Context, videoID, viewerID string) (*views.VideoDetail, error) {
	id, err := parseID(videoID, "video id")
	if err != nil {
		return nil, err
	}
	viewer, err := parseOptionalID(viewerID, "user id")
	if err != nil {
		return nil, err
	}

	video, err := visibleVideo(ctx, s.videoRepo, id, viewer)
	if err != nil {
		return nil, err
	}

	if err := s.videoRepo.IncrementViews(ctx, id); err != nil {
		return nil, errs.Internal(err, "Failed to count view")
	}
	if viewer != uuid.Nil {
		if err := s.historyRepo.Record(ctx, viewer, id); err != nil {
			s.logger.WithError(err).WithField("video_id", id).Warn("Failed to record watch history")
		}
	}

	detail, err := s.composer.VideoDetail(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.producer, s.logger, video.OwnerID.String(), queue.NewEvent(queue.EventVideoViewed, queue.VideoEventData{
		VideoID: id.String(),
		OwnerID: video.OwnerID.String(),
	}))
	return detail, nil
}

func (s *VideoService) Update(ctx context.Context, videoID, callerID string, req *UpdateVideoRequest) (*models.Video, error) {
	video, caller, err := s.loadVideo(ctx, videoID, callerID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" && description == "" && req.ThumbnailPath == "" {
		return nil, errs.InvalidArgument("Title, description or thumbnail is required")
	}
	if err := ensureOwner(video, caller, "You are not allowed to update this video"); err != nil {
		return nil, err
	}

	if title != "" {
		video.Title = title
	}
	if description != "" {
		video.Description = description
	}
	previousThumbnail := ""
	if req.ThumbnailPath != "" {
		thumbnail, err := s.store.Upload(ctx, req.ThumbnailPath, media.CategoryThumbnail)
		if err != nil {
			return nil, errs.Internal(err, "Failed to upload thumbnail")
		}
		previousThumbnail = video.Thumbnail
		video.Thumbnail = thumbnail.URL
	}

	if err := s.videoRepo.UpdateDetails(ctx, video); err != nil {
		if previousThumbnail != "" {
			discardMedia(ctx, s.store, s.producer, s.logger, "video update failed", video.Thumbnail)
		}
		return nil, errs.Internal(err, "Failed to update video")
	}
	discardMedia(ctx, s.store, s.producer, s.logger, "replaced", previousThumbnail)

	s.logger.WithField("video_id", video.ID).Info("Video updated successfully")
	return video, nil
}

// Delete removes the record and its dependants first; media that cannot be
// deleted afterwards is logged and reported as orphaned.
func (s *VideoService) Delete(ctx context.Context, videoID, callerID string) error {
	video, caller, err := s.loadVideo(ctx, videoID, callerID)
	if err != nil {
		return err
	}
	if err := ensureOwner(video, caller, "You are not allowed to delete this video"); err != nil {
		return err
	}

	if err := s.videoRepo.Delete(ctx, video.ID); err != nil {
		return errs.Internal(err, "Failed to delete video")
	}
	discardMedia(ctx, s.store, s.producer, s.logger, "video deleted", video.VideoFile, video.Thumbnail)

	publish(ctx, s.producer, s.logger, caller.String(), queue.NewEvent(queue.EventVideoDeleted, queue.VideoEventData{
		VideoID: video.ID.String(),
		OwnerID: caller.String(),
		Title:   video.Title,
	}))

	s.logger.WithField("video_id", video.ID).Info("Video deleted successfully")
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, videoID, callerID string) (*models.Video, error) {
	video, caller, err := s.loadVideo(ctx, videoID, callerID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(video, caller, "You are not allowed to change this video"); err != nil {
		return nil, err
	}

	published, err := s.videoRepo.TogglePublished(ctx, video.ID)
	if err != nil {
		return nil, errs.Internal(err, "Failed to toggle publish status")
	}
	video.IsPublished = published

	s.logger.WithFields(map[string]interface{}{
		"video_id":     video.ID,
		"is_published": published,
	}).Info("Video publish status toggled")
	return video, nil
}

func (s *VideoService) loadVideo(ctx context.Context, videoID, callerID string) (*models.Video, uuid.UUID, error) {
	id, err := parseID(videoID, "video id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, uuid.Nil, errs.Internal(err, "Failed to get video")
	}
	if video == nil {
		return nil, uuid.Nil, errs.NotFound("Video not found")
	}
	return video, caller, nil
}
