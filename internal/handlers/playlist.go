package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/vidtube/internal/middleware"
	"github.com/vidtube/vidtube/internal/response"
	"github.com/vidtube/vidtube/internal/services"
	"github.com/vidtube/vidtube/pkg/logger"
)

type PlaylistHandler struct {
	playlistService *services.PlaylistService
	logger          *logger.Logger
}

func NewPlaylistHandler(playlistService *services.PlaylistService, logger *logger.Logger) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService, logger: logger}
}

func (h *PlaylistHandler) Create(c *gin.Context) {
	var req services.PlaylistRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	playlist, err := h.playlistService.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusCreated, playlist, "Playlist created successfully")
}

func (h *PlaylistHandler) ListMine(c *gin.Context) {
	h.list(c, middleware.GetUserID(c))
}

func (h *PlaylistHandler) ListByUser(c *gin.Context) {
	h.list(c, c.Param("userId"))
}

func (h *PlaylistHandler) list(c *gin.Context, userID string) {
	playlists, err := h.playlistService.ListByUser(c.Request.Context(), userID, pageFrom(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, playlists, "Playlists fetched successfully")
}

func (h *PlaylistHandler) Get(c *gin.Context) {
	playlist, err := h.playlistService.Get(c.Request.Context(), c.Param("playlistId"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, playlist, "Playlist fetched successfully")
}

func (h *PlaylistHandler) Update(c *gin.Context) {
	var req services.PlaylistRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	playlist, err := h.playlistService.Update(c.Request.Context(), c.Param("playlistId"), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, playlist, "Playlist updated successfully")
}

func (h *PlaylistHandler) Delete(c *gin.Context) {
	if err := h.playlistService.Delete(c.Request.Context(), c.Param("playlistId"), middleware.GetUserID(c)); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{}, "Playlist deleted successfully")
}

func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	playlist, err := h.playlistService.AddVideo(c.Request.Context(), c.Param("videoId"), c.Param("playlistId"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, playlist, "Video added to playlist successfully")
}

func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	playlist, err := h.playlistService.RemoveVideo(c.Request.Context(), c.Param("videoId"), c.Param("playlistId"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, playlist, "Video removed from playlist successfully")
}
