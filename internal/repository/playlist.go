package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	if playlist.Videos == nil {
		playlist.Videos = []uuid.UUID{}
	}
	return nil
}

// GetByID loads the playlist together with its ordered video ids.
func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.WithContext(ctx).First(&playlist, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get playlist by ID: %w", err)
	}

	videos, err := r.VideoIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	playlist.Videos = videos
	return &playlist, nil
}

func (r *PlaylistRepository) VideoIDs(ctx context.Context, playlistID uuid.UUID) ([]uuid.UUID, error) {
	videos := []uuid.UUID{}
	if err := r.db.WithContext(ctx).
		Model(&models.PlaylistVideo{}).
		Where("playlist_id = ?", playlistID).
		Order("id ASC").
		Pluck("video_id", &videos).Error; err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
	}
	return videos, nil
}

func (r *PlaylistRepository) UpdateDetails(ctx context.Context, playlist *models.Playlist) error {
	if err := r.db.WithContext(ctx).
		Model(playlist).
		Select("name", "description", "updated_at").
		Updates(playlist).Error; err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Playlist{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return nil
}

// AddVideo reports false when the video was already a member.
func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID})
	if res.Error != nil {
		return false, fmt.Errorf("failed to add video to playlist: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// RemoveVideo reports false when the video was not a member.
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove video from playlist: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
