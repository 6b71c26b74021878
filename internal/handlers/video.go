package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/middleware"
	"github.com/vidtube/vidtube/internal/response"
	"github.com/vidtube/vidtube/internal/services"
	"github.com/vidtube/vidtube/pkg/logger"
	"github.com/vidtube/vidtube/pkg/media"
)

type VideoHandler struct {
	videoService *services.VideoService
	staging      Staging
	logger       *logger.Logger
}

func NewVideoHandler(videoService *services.VideoService, staging Staging, logger *logger.Logger) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		staging:      staging,
		logger:       logger,
	}
}

func (h *VideoHandler) List(c *gin.Context) {
	videos, err := h.videoService.List(c.Request.Context(), middleware.GetUserID(c), services.ListVideosQuery{
		Page:     pageFrom(c),
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
		UserID:   c.Query("userId"),
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, videos, "Videos fetched successfully")
}

func (h *VideoHandler) Publish(c *gin.Context) {
	videoPath, err := h.staging.Save(c, "video")
	if err == nil && videoPath == "" {
		videoPath, err = h.staging.Save(c, "videoFile")
	}
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	thumbnailPath, err := h.staging.Save(c, "thumbnail")
	defer media.RemoveLocal(videoPath, thumbnailPath)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	req := &services.PublishVideoRequest{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
	}
	if raw, ok := c.GetPostForm("isPublished"); ok && raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, h.logger, errs.InvalidArgument("isPublished must be a boolean"))
			return
		}
		req.IsPublished = &published
	}

	video, err := h.videoService.Publish(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusCreated, video, "Video published successfully")
}

func (h *VideoHandler) Get(c *gin.Context) {
	video, err := h.videoService.Get(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, video, "Video fetched successfully")
}

func (h *VideoHandler) Update(c *gin.Context) {
	thumbnailPath, err := h.staging.Save(c, "thumbnail")
	defer media.RemoveLocal(thumbnailPath)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	video, err := h.videoService.Update(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c), &services.UpdateVideoRequest{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, video, "Video updated successfully")
}

func (h *VideoHandler) Delete(c *gin.Context) {
	if err := h.videoService.Delete(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c)); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{}, "Video deleted successfully")
}

func (h *VideoHandler) TogglePublish(c *gin.Context) {
	video, err := h.videoService.TogglePublish(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"isPublished": video.IsPublished}, "Publish status toggled successfully")
}
