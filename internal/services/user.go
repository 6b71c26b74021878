package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/middleware"
	"github.com/vidtube/vidtube/internal/models"
	"github.com/vidtube/vidtube/internal/repository"
	"github.com/vidtube/vidtube/internal/views"
	"github.com/vidtube/vidtube/pkg/logger"
	"github.com/vidtube/vidtube/pkg/media"
	"github.com/vidtube/vidtube/pkg/queue"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo *repository.UserRepository
	composer *views.Composer
	store    media.Store
	tokens   *middleware.JWTConfig
	producer queue.Publisher
	logger   *logger.Logger
}

func NewUserService(userRepo *repository.UserRepository, composer *views.Composer, store media.Store, tokens *middleware.JWTConfig, producer queue.Publisher, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		composer: composer,
		store:    store,
		tokens:   tokens,
		producer: producer,
		logger:   logger,
	}
}

// RegisterRequest carries form fields plus the staged local paths of the
// uploaded images.
type RegisterRequest struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// LoginResult is the user together with a freshly issued token pair.
type LoginResult struct {
	User *models.User `json:"user"`
	middleware.TokenPair
}

func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, errs.InvalidArgument("All fields are required")
	}

	// 用户名或邮箱已被占用
	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, errs.Internal(err, "Failed to check user")
	}
	if existing != nil {
		return nil, errs.Conflict("User with email or username already exists")
	}

	if req.AvatarPath == "" {
		return nil, errs.InvalidArgument("Avatar file is required")
	}

	avatar, err := s.store.Upload(ctx, req.AvatarPath, media.CategoryAvatar)
	if err != nil {
		return nil, errs.Internal(err, "Failed to upload avatar")
	}
	var coverURL string
	if req.CoverImagePath != "" {
		cover, err := s.store.Upload(ctx, req.CoverImagePath, media.CategoryCover)
		if err != nil {
			discardMedia(ctx, s.store, s.producer, s.logger, "cover upload failed", avatar.URL)
			return nil, errs.Internal(err, "Failed to upload cover image")
		}
		coverURL = cover.URL
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		discardMedia(ctx, s.store, s.producer, s.logger, "password hashing failed", avatar.URL, coverURL)
		return nil, errs.Internal(err, "Failed to hash password")
	}

	user := &models.User{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Avatar:     avatar.URL,
		CoverImage: coverURL,
		Password:   string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		discardMedia(ctx, s.store, s.producer, s.logger, "user insert failed", avatar.URL, coverURL)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errs.Conflict("User with email or username already exists")
		}
		return nil, errs.Internal(err, "Something went wrong while registering the user")
	}

	publish(ctx, s.producer, s.logger, user.ID.String(), queue.NewEvent(queue.EventUserRegistered, queue.UserEventData{
		UserID:   user.ID.String(),
		Username: user.Username,
	}))

	s.logger.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, errs.InvalidArgument("username or email is required")
	}

	user, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, errs.Internal(err, "Failed to get user")
	}
	if user == nil {
		return nil, errs.NotFound("User does not exist")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errs.Unauthenticated("Invalid user credentials")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in successfully")
	return &LoginResult{User: user, TokenPair: *pair}, nil
}

// Logout drops the stored refresh token so it can no longer be exchanged.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	id, err := parseID(userID, "user id")
	if err != nil {
		return err
	}
	if err := s.userRepo.SetRefreshTokenHash(ctx, id, ""); err != nil {
		return errs.Internal(err, "Failed to log out")
	}
	s.logger.WithField("user_id", id).Info("User logged out successfully")
	return nil
}

// RefreshTokens rotates the pair. Only the most recently issued refresh
// token is accepted.
func (s *UserService) RefreshTokens(ctx context.Context, refreshToken string) (*middleware.TokenPair, error) {
	if refreshToken == "" {
		return nil, errs.Unauthenticated("Unauthorized request")
	}

	claims, err := middleware.ParseToken(refreshToken, s.tokens.RefreshSecret)
	if err != nil {
		return nil, errs.Unauthenticated("Invalid refresh token")
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errs.Unauthenticated("Invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Internal(err, "Failed to get user")
	}
	if user == nil {
		return nil, errs.Unauthenticated("Invalid refresh token")
	}
	if user.RefreshTokenHash == "" || user.RefreshTokenHash != hashToken(refreshToken) {
		return nil, errs.Unauthenticated("Refresh token is expired or used")
	}

	return s.issueTokens(ctx, user)
}

func (s *UserService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	id, err := parseID(userID, "user id")
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.OldPassword) == "" || strings.TrimSpace(req.NewPassword) == "" {
		return errs.InvalidArgument("Old and new password are required")
	}

	user, err := s.requireUser(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return errs.InvalidArgument("Invalid old password")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errs.Internal(err, "Failed to hash password")
	}
	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{"password": string(hashedPassword)}); err != nil {
		return errs.Internal(err, "Failed to change password")
	}

	s.logger.WithField("user_id", id).Info("Password changed successfully")
	return nil
}

func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	return s.requireUser(ctx, id)
}

func (s *UserService) UpdateAccount(ctx context.Context, userID string, req *UpdateAccountRequest) (*models.User, error) {
	id, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		return nil, errs.InvalidArgument("All fields are required")
	}

	holder, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errs.Internal(err, "Failed to update account")
	}
	if holder != nil && holder.ID != id {
		return nil, errs.Conflict("Email is already in use")
	}

	// 并发下仍由唯一索引兜底
	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{
		"full_name": fullName,
		"email":     email,
	}); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errs.Conflict("Email is already in use")
		}
		return nil, errs.Internal(err, "Failed to update account")
	}

	s.logger.WithField("user_id", id).Info("Account updated successfully")
	return s.requireUser(ctx, id)
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error) {
	if localPath == "" {
		return nil, errs.InvalidArgument("Avatar file is missing")
	}
	return s.replaceImage(ctx, userID, localPath, media.CategoryAvatar)
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error) {
	if localPath == "" {
		return nil, errs.InvalidArgument("Cover image file is missing")
	}
	return s.replaceImage(ctx, userID, localPath, media.CategoryCover)
}

// replaceImage uploads the new image first and only removes the previous
// object once the user row points at the new one.
func (s *UserService) replaceImage(ctx context.Context, userID, localPath string, category media.Category) (*models.User, error) {
	id, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	user, err := s.requireUser(ctx, id)
	if err != nil {
		return nil, err
	}

	asset, err := s.store.Upload(ctx, localPath, category)
	if err != nil {
		return nil, errs.Internal(err, fmt.Sprintf("Failed to upload %s", category))
	}

	column, previous := "avatar", user.Avatar
	if category == media.CategoryCover {
		column, previous = "cover_image", user.CoverImage
	}
	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{column: asset.URL}); err != nil {
		discardMedia(ctx, s.store, s.producer, s.logger, "user update failed", asset.URL)
		return nil, errs.Internal(err, "Failed to update user")
	}
	discardMedia(ctx, s.store, s.producer, s.logger, "replaced", previous)

	if category == media.CategoryCover {
		user.CoverImage = asset.URL
	} else {
		user.Avatar = asset.URL
	}
	s.logger.WithFields(map[string]interface{}{
		"user_id":  id,
		"category": category,
	}).Info("User image updated successfully")
	return user, nil
}

func (s *UserService) ChannelProfile(ctx context.Context, username, viewerID string) (*views.ChannelProfile, error) {
	viewer, err := parseOptionalID(viewerID, "user id")
	if err != nil {
		return nil, err
	}
	return s.composer.ChannelProfile(ctx, username, viewer)
}

func (s *UserService) WatchHistory(ctx context.Context, userID string, p views.Page) (*views.Paginated[views.WatchedVideo], error) {
	id, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	return s.composer.WatchHistory(ctx, id, p)
}

func (s *UserService) requireUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Internal(err, "Failed to get user")
	}
	if user == nil {
		return nil, errs.NotFound("User not found")
	}
	return user, nil
}

// issueTokens signs a new pair and stores the digest of the refresh token.
func (s *UserService) issueTokens(ctx context.Context, user *models.User) (*middleware.TokenPair, error) {
	pair, err := s.tokens.IssuePair(user.ID.String(), user.Username, user.Email, user.FullName)
	if err != nil {
		return nil, errs.Internal(err, "Something went wrong while generating tokens")
	}
	if err := s.userRepo.SetRefreshTokenHash(ctx, user.ID, hashToken(pair.RefreshToken)); err != nil {
		return nil, errs.Internal(err, "Failed to store refresh token")
	}
	return pair, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
