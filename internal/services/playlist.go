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
)

type PlaylistService struct {
	playlistRepo *repository.PlaylistRepository
	videoRepo    *repository.VideoRepository
	userRepo     *repository.UserRepository
	composer     *views.Composer
	logger       *logger.Logger
}

func NewPlaylistService(playlistRepo *repository.PlaylistRepository, videoRepo *repository.VideoRepository, userRepo *repository.UserRepository, composer *views.Composer, logger *logger.Logger) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		userRepo:     userRepo,
		composer:     composer,
		logger:       logger,
	}
}

type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *PlaylistService) Create(ctx context.Context, callerID string, req *PlaylistRequest) (*models.Playlist, error) {
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" {
		return nil, errs.InvalidArgument("Both name and description are required")
	}

	playlist := &models.Playlist{Name: name, Description: description, OwnerID: caller}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, errs.Internal(err, "Failed to create playlist")
	}

	s.logger.WithFields(map[string]interface{}{
		"playlist_id": playlist.ID,
		"owner_id":    caller,
	}).Info("Playlist created successfully")
	return playlist, nil
}

func (s *PlaylistService) ListByUser(ctx context.Context, userID string, p views.Page) (*views.Paginated[views.PlaylistSummary], error) {
	owner, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	exists, err := s.userRepo.Exists(ctx, owner)
	if err != nil {
		return nil, errs.Internal(err, "Failed to get user")
	}
	if !exists {
		return nil, errs.NotFound("User not found")
	}
	return s.composer.ListPlaylists(ctx, owner, p)
}

func (s *PlaylistService) Get(ctx context.Context, playlistID, viewerID string) (*views.PlaylistDetail, error) {
	id, err := parseID(playlistID, "playlist id")
	if err != nil {
		return nil, err
	}
	viewer, err := parseOptionalID(viewerID, "user id")
	if err != nil {
		return nil, err
	}
	return s.composer.PlaylistDetail(ctx, id, viewer)
}

// Update changes only the fields that are given.
func (s *PlaylistService) Update(ctx context.Context, playlistID, callerID string, req *PlaylistRequest) (*models.Playlist, error) {
	playlist, caller, err := s.loadPlaylist(ctx, playlistID, callerID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" && description == "" {
		return nil, errs.InvalidArgument("Name or description is required")
	}
	if err := ensureOwner(playlist, caller, "You are not allowed to update this playlist"); err != nil {
		return nil, err
	}

	if name != "" {
		playlist.Name = name
	}
	if description != "" {
		playlist.Description = description
	}
	if err := s.playlistRepo.UpdateDetails(ctx, playlist); err != nil {
		return nil, errs.Internal(err, "Failed to update playlist")
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, playlistID, callerID string) error {
	playlist, caller, err := s.loadPlaylist(ctx, playlistID, callerID)
	if err != nil {
		return err
	}
	if err := ensureOwner(playlist, caller, "You are not allowed to delete this playlist"); err != nil {
		return err
	}
	if err := s.playlistRepo.Delete(ctx, playlist.ID); err != nil {
		return errs.Internal(err, "Failed to delete playlist")
	}

	s.logger.WithField("playlist_id", playlist.ID).Info("Playlist deleted successfully")
	return nil
}

func (s *PlaylistService) AddVideo(ctx context.Context, videoID, playlistID, callerID string) (*models.Playlist, error) {
	playlist, video, caller, err := s.loadMembership(ctx, videoID, playlistID, callerID)
	if err != nil {
		return nil, err
	}
	// 别人的草稿不能加入, 也不能借此探测其存在
	if _, err := visibleVideo(ctx, s.videoRepo, video, caller); err != nil {
		return nil, err
	}

	added, err := s.playlistRepo.AddVideo(ctx, playlist.ID, video)
	if err != nil {
		return nil, errs.Internal(err, "Failed to add video to playlist")
	}
	if !added {
		return nil, errs.Conflict("Video already exists in the playlist")
	}
	return s.reload(ctx, playlist)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, videoID, playlistID, callerID string) (*models.Playlist, error) {
	playlist, video, _, err := s.loadMembership(ctx, videoID, playlistID, callerID)
	if err != nil {
		return nil, err
	}

	removed, err := s.playlistRepo.RemoveVideo(ctx, playlist.ID, video)
	if err != nil {
		return nil, errs.Internal(err, "Failed to remove video from playlist")
	}
	if !removed {
		return nil, errs.NotFound("Video is not in the playlist")
	}
	return s.reload(ctx, playlist)
}

// loadMembership checks the playlist and its ownership before a membership
// change.
func (s *PlaylistService) loadMembership(ctx context.Context, videoID, playlistID, callerID string) (*models.Playlist, uuid.UUID, uuid.UUID, error) {
	video, err := parseID(videoID, "video id")
	if err != nil {
		return nil, uuid.Nil, uuid.Nil, err
	}
	playlist, caller, err := s.loadPlaylist(ctx, playlistID, callerID)
	if err != nil {
		return nil, uuid.Nil, uuid.Nil, err
	}
	if err := ensureOwner(playlist, caller, "You are not allowed to modify this playlist"); err != nil {
		return nil, uuid.Nil, uuid.Nil, err
	}
	return playlist, video, caller, nil
}

func (s *PlaylistService) loadPlaylist(ctx context.Context, playlistID, callerID string) (*models.Playlist, uuid.UUID, error) {
	id, err := parseID(playlistID, "playlist id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, uuid.Nil, errs.Internal(err, "Failed to get playlist")
	}
	if playlist == nil {
		return nil, uuid.Nil, errs.NotFound("Playlist not found")
	}
	return playlist, caller, nil
}

func (s *PlaylistService) reload(ctx context.Context, playlist *models.Playlist) (*models.Playlist, error) {
	videos, err := s.playlistRepo.VideoIDs(ctx, playlist.ID)
	if err != nil {
		return nil, errs.Internal(err, "Failed to get playlist videos")
	}
	playlist.Videos = videos
	return playlist, nil
}
