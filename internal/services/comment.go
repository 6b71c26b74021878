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
	"github.com/vidtube/vidtube/pkg/queue"
)

type CommentService struct {
	videoRepo   *repository.VideoRepository
	commentRepo *repository.CommentRepository
	composer    *views.Composer
	producer    queue.Publisher
	logger      *logger.Logger
}

func NewCommentService(videoRepo *repository.VideoRepository, commentRepo *repository.CommentRepository, composer *views.Composer, producer queue.Publisher, logger *logger.Logger) *CommentService {
	return &CommentService{
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		composer:    composer,
		producer:    producer,
		logger:      logger,
	}
}

type CommentRequest struct {
	Content string `json:"content"`
}

func (s *CommentService) List(ctx context.Context, videoID, viewerID string, p views.Page) (*views.Paginated[views.CommentView], error) {
	id, err := parseID(videoID, "video id")
	if err != nil {
		return nil, err
	}
	viewer, err := parseOptionalID(viewerID, "user id")
	if err != nil {
		return nil, err
	}
	if _, err := visibleVideo(ctx, s.videoRepo, id, viewer); err != nil {
		return nil, err
	}
	return s.composer.ListComments(ctx, id, viewer, p)
}

func (s *CommentService) Add(ctx context.Context, videoID, callerID string, req *CommentRequest) (*models.Comment, error) {
	id, err := parseID(videoID, "video id")
	if err != nil {
		return nil, err
	}
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errs.InvalidArgument("Comment content is required")
	}
	video, err := visibleVideo(ctx, s.videoRepo, id, caller)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: content, VideoID: id, OwnerID: caller}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, errs.Internal(err, "Failed to add comment")
	}

	publish(ctx, s.producer, s.logger, video.OwnerID.String(), queue.NewEvent(queue.EventCommentCreated, queue.CommentEventData{
		CommentID: comment.ID.String(),
		UserID:    caller.String(),
		VideoID:   id.String(),
	}))

	s.logger.WithFields(map[string]interface{}{
		"comment_id": comment.ID,
		"video_id":   id,
		"user_id":    caller,
	}).Info("Comment created successfully")
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, commentID, callerID string, req *CommentRequest) (*models.Comment, error) {
	comment, caller, err := s.loadComment(ctx, commentID, callerID)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errs.InvalidArgument("Comment content is required")
	}
	if err := ensureOwner(comment, caller, "You are not allowed to update this comment"); err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.commentRepo.UpdateContent(ctx, comment); err != nil {
		return nil, errs.Internal(err, "Failed to update comment")
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, commentID, callerID string) error {
	comment, caller, err := s.loadComment(ctx, commentID, callerID)
	if err != nil {
		return err
	}
	if err := ensureOwner(comment, caller, "You are not allowed to delete this comment"); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return errs.Internal(err, "Failed to delete comment")
	}

	s.logger.WithField("comment_id", comment.ID).Info("Comment deleted successfully")
	return nil
}

func (s *CommentService) loadComment(ctx context.Context, commentID, callerID string) (*models.Comment, uuid.UUID, error) {
	id, err := parseID(commentID, "comment id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, uuid.Nil, errs.Internal(err, "Failed to get comment")
	}
	if comment == nil {
		return nil, uuid.Nil, errs.NotFound("Comment not found")
	}
	return comment, caller, nil
}
