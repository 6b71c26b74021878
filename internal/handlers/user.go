package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/vidtube/internal/middleware"
	"github.com/vidtube/vidtube/internal/models"
	"github.com/vidtube/vidtube/internal/response"
	"github.com/vidtube/vidtube/internal/services"
	"github.com/vidtube/vidtube/pkg/logger"
	"github.com/vidtube/vidtube/pkg/media"
)

type UserHandler struct {
	userService  *services.UserService
	tokens       *middleware.JWTConfig
	secureCookie bool
	staging      Staging
	logger       *logger.Logger
}

func NewUserHandler(userService *services.UserService, tokens *middleware.JWTConfig, secureCookie bool, staging Staging, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService:  userService,
		tokens:       tokens,
		secureCookie: secureCookie,
		staging:      staging,
		logger:       logger,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	avatar, err := h.staging.Save(c, "avatar")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	cover, err := h.staging.Save(c, "coverImage")
	defer media.RemoveLocal(avatar, cover)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &services.RegisterRequest{
		FullName:       c.PostForm("fullName"),
		Email:          c.PostForm("email"),
		Username:       c.PostForm("username"),
		Password:       c.PostForm("password"),
		AvatarPath:     avatar,
		CoverImagePath: cover,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, user, "User registered successfully")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	result, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	middleware.SetAuthCookies(c, h.tokens, &result.TokenPair, h.secureCookie)
	response.OK(c, http.StatusOK, result, "User logged in successfully")
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.userService.Logout(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	middleware.ClearAuthCookies(c, h.secureCookie)
	response.OK(c, http.StatusOK, gin.H{}, "User logged out")
}

// RefreshToken reads the refresh token from its cookie, falling back to the body.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := bindJSON(c, &body); err != nil {
			response.Error(c, h.logger, err)
			return
		}
		token = body.RefreshToken
	}

	pair, err := h.userService.RefreshTokens(c.Request.Context(), token)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	middleware.SetAuthCookies(c, h.tokens, pair, h.secureCookie)
	response.OK(c, http.StatusOK, pair, "Access token refreshed")
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), middleware.GetUserID(c), &req); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, err := h.userService.CurrentUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, user, "User fetched successfully")
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req services.UpdateAccountRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	user, err := h.userService.UpdateAccount(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, user, "Account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.userService.UpdateAvatar, "Avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", h.userService.UpdateCoverImage, "Cover image updated successfully")
}

func (h *UserHandler) updateImage(c *gin.Context, field string, update func(ctx context.Context, userID, localPath string) (*models.User, error), message string) {
	path, err := h.staging.Save(c, field)
	defer media.RemoveLocal(path)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	user, err := update(c.Request.Context(), middleware.GetUserID(c), path)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, user, message)
}

func (h *UserHandler) ChannelProfile(c *gin.Context) {
	profile, err := h.userService.ChannelProfile(c.Request.Context(), c.Param("username"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, profile, "User channel fetched successfully")
}

func (h *UserHandler) WatchHistory(c *gin.Context) {
	history, err := h.userService.WatchHistory(c.Request.Context(), middleware.GetUserID(c), pageFrom(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, history, "Watch history fetched successfully")
}
