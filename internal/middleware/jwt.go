package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/response"
	"github.com/vidtube/vidtube/pkg/logger"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	contextUserID   = "user_id"
	contextUsername = "username"
)

type JWTConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func GenerateToken(claims Claims, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// IssuePair signs an access token carrying the profile claims and a refresh
// token carrying only the user id.
func (cfg *JWTConfig) IssuePair(userID, username, email, fullName string) (*TokenPair, error) {
	access, err := GenerateToken(Claims{UserID: userID, Username: username, Email: email, FullName: fullName}, cfg.AccessSecret, cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateToken(Claims{UserID: userID}, cfg.RefreshSecret, cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// NewJWTAuth accepts the access token from the cookie or a Bearer header.
func NewJWTAuth(cfg *JWTConfig, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(AccessTokenCookie)
		if token == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			}
		}
		if token == "" {
			response.Error(c, log, errs.Unauthenticated("Unauthorized request"))
			return
		}

		claims, err := ParseToken(token, cfg.AccessSecret)
		if err != nil {
			response.Error(c, log, errs.Unauthenticated("Invalid access token"))
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextUsername, claims.Username)
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}

func GetUsername(c *gin.Context) string {
	return c.GetString(contextUsername)
}

// SetAuthCookies writes both tokens as http-only cookies.
func SetAuthCookies(c *gin.Context, cfg *JWTConfig, pair *TokenPair, secure bool) {
	c.SetSameSite(httpSameSite(secure))
	c.SetCookie(AccessTokenCookie, pair.AccessToken, int(cfg.AccessTTL.Seconds()), "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, pair.RefreshToken, int(cfg.RefreshTTL.Seconds()), "/", "", secure, true)
}

func ClearAuthCookies(c *gin.Context, secure bool) {
	c.SetSameSite(httpSameSite(secure))
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}
