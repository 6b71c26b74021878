package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/middleware"
	"github.com/vidtube/vidtube/internal/repository"
	"github.com/vidtube/vidtube/internal/services"
	"github.com/vidtube/vidtube/internal/views"
	"github.com/vidtube/vidtube/pkg/cache"
	"github.com/vidtube/vidtube/pkg/logger"
	"github.com/vidtube/vidtube/pkg/media"
)

type memoryStore struct{}

func (memoryStore) Upload(ctx context.Context, localPath string, category media.Category) (*media.Asset, error) {
	key := string(category) + "/" + path.Base(localPath)
	return &media.Asset{URL: "http://cdn/vidtube/" + key, Key: key}, nil
}

func (memoryStore) Delete(ctx context.Context, rawURL string) error { return nil }

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

type server struct {
	router   *gin.Engine
	stageDir string
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "handlers_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	rdb := cache.NewRedisClient(mr.Addr(), "", 0, 5, 0)
	t.Cleanup(func() { _ = rdb.Close() })

	log := logger.Discard()
	store := memoryStore{}
	composer := views.NewComposer(db.DB)
	tokens := &middleware.JWTConfig{AccessSecret: "a", AccessTTL: time.Hour, RefreshSecret: "r", RefreshTTL: time.Hour}
	staging := Staging{Dir: t.TempDir(), MaxBytes: 1 << 20}

	userRepo := repository.NewUserRepository(db.DB)
	videoRepo := repository.NewVideoRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	tweetRepo := repository.NewTweetRepository(db.DB)

	h := &Handlers{
		User:  NewUserHandler(services.NewUserService(userRepo, composer, store, tokens, nil, log), tokens, false, staging, log),
		Video: NewVideoHandler(services.NewVideoService(videoRepo, repository.NewWatchHistoryRepository(db.DB), composer, store, nil, log), staging, log),
		Social: NewSocialHandler(
			services.NewCommentService(videoRepo, commentRepo, composer, nil, log),
			services.NewTweetService(tweetRepo, userRepo, composer, nil, log),
			services.NewLikeService(repository.NewLikeRepository(db.DB), videoRepo, commentRepo, tweetRepo, composer, nil, log),
			log),
		Channel: NewChannelHandler(
			services.NewSubscriptionService(repository.NewSubscriptionRepository(db.DB), userRepo, composer, nil, log),
			services.NewDashboardService(composer, rdb, time.Minute, log),
			services.NewHealthService(db),
			log),
		Playlist: NewPlaylistHandler(services.NewPlaylistService(repository.NewPlaylistRepository(db.DB), videoRepo, userRepo, composer, log), log),
	}

	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"), middleware.NewJWTAuth(tokens, log), middleware.RateLimit(rdb, "auth", 100, time.Minute, log))
	return &server{router: router, stageDir: staging.Dir}
}

func (s *server) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var body envelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", req.Method, req.URL.Path, err, w.Body.String())
	}
	if body.StatusCode != w.Code {
		t.Fatalf("envelope status %d does not mirror HTTP status %d", body.StatusCode, w.Code)
	}
	return w, body
}

func registerRequest(t *testing.T, username string, withAvatar bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"fullName": "Alice Doe",
		"email":    username + "@example.com",
		"username": username,
		"password": "secret",
	} {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withAvatar {
		part, err := mw.CreateFormFile("avatar", "me.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write([]byte("png"))
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func loginToken(t *testing.T, s *server, username string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": "secret"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w, env := s.do(t, req)
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("login: %d %s", w.Code, env.Message)
	}
	var cookieSet bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AccessTokenCookie && c.HttpOnly {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Fatalf("access token cookie missing")
	}

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		t.Fatalf("login data: %v %s", err, env.Data)
	}
	return data.AccessToken
}

func authed(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHealthcheck(t *testing.T) {
	s := newServer(t)
	w, env := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))
	if w.Code != http.StatusOK || !env.Success || env.Message != "OK" {
		t.Fatalf("healthcheck: %d %+v", w.Code, env)
	}
}

func TestUnauthenticatedRequestUsesErrorEnvelope(t *testing.T) {
	s := newServer(t)
	w, env := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if env.Success || env.Errors == nil || len(env.Errors) != 0 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestRegisterLoginAndCurrentUser(t *testing.T) {
	s := newServer(t)

	w, env := s.do(t, registerRequest(t, "alice", true))
	if w.Code != http.StatusCreated || !env.Success {
		t.Fatalf("register: %d %s", w.Code, env.Message)
	}
	staged, _ := os.ReadDir(s.stageDir)
	if len(staged) != 0 {
		t.Fatalf("staged files left behind: %d", len(staged))
	}

	w, env = s.do(t, registerRequest(t, "alice", true))
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: %d %s", w.Code, env.Message)
	}

	token := loginToken(t, s, "alice")
	w, env = s.do(t, authed(http.MethodGet, "/api/v1/users/current-user", token))
	if w.Code != http.StatusOK {
		t.Fatalf("current user: %d %s", w.Code, env.Message)
	}
	var user map[string]interface{}
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user["username"] != "alice" {
		t.Fatalf("username = %v", user["username"])
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password must not be serialised")
	}
}

func TestRegisterWithoutAvatar(t *testing.T) {
	s := newServer(t)
	w, env := s.do(t, registerRequest(t, "bob", false))
	if w.Code != http.StatusBadRequest || env.Message != "Avatar file is required" {
		t.Fatalf("register without avatar: %d %s", w.Code, env.Message)
	}
}

func TestVideoLookupErrors(t *testing.T) {
	s := newServer(t)
	s.do(t, registerRequest(t, "alice", true))
	token := loginToken(t, s, "alice")

	w, env := s.do(t, authed(http.MethodGet, "/api/v1/videos/"+uuid.NewString(), token))
	if w.Code != http.StatusNotFound || env.Message != "Video not found" {
		t.Fatalf("missing video: %d %s", w.Code, env.Message)
	}
	w, _ = s.do(t, authed(http.MethodGet, "/api/v1/videos/not-a-uuid", token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: %d", w.Code)
	}

	w, env = s.do(t, authed(http.MethodGet, "/api/v1/videos?page=0&limit=abc", token))
	if w.Code != http.StatusOK {
		t.Fatalf("list videos: %d %s", w.Code, env.Message)
	}
	var page views.Paginated[views.VideoCard]
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Page != 1 || page.Limit != 10 || page.Docs == nil {
		t.Fatalf("page = %+v", page)
	}
}

func jsonRequest(t *testing.T, method, target, token string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func publishRequest(t *testing.T, token, title string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", title)
	_ = mw.WriteField("description", "about "+title)
	for field, name := range map[string]string{"video": title + ".mp4", "thumbnail": title + ".jpg"} {
		part, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write([]byte(field))
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// signUp registers and logs in a user, returning its id and access token.
func signUp(t *testing.T, s *server, username string) (string, string) {
	t.Helper()
	w, env := s.do(t, registerRequest(t, username, true))
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", username, w.Code, env.Message)
	}
	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &user); err != nil || user.ID == "" {
		t.Fatalf("register data: %v %s", err, env.Data)
	}
	return user.ID, loginToken(t, s, username)
}

func publish(t *testing.T, s *server, token, title string) string {
	t.Helper()
	w, env := s.do(t, publishRequest(t, token, title))
	if w.Code != http.StatusCreated {
		t.Fatalf("publish %s: %d %s", title, w.Code, env.Message)
	}
	var video struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &video); err != nil || video.ID == "" {
		t.Fatalf("publish data: %v %s", err, env.Data)
	}
	return video.ID
}

func TestVideoDetailCountsViewsOverHTTP(t *testing.T) {
	s := newServer(t)
	aliceID, alice := signUp(t, s, "alice")
	_, bob := signUp(t, s, "bob")
	videoID := publish(t, s, alice, "intro")

	for want := int64(1); want <= 2; want++ {
		w, env := s.do(t, authed(http.MethodGet, "/api/v1/videos/"+videoID, bob))
		if w.Code != http.StatusOK {
			t.Fatalf("get video: %d %s", w.Code, env.Message)
		}
		var detail views.VideoDetail
		if err := json.Unmarshal(env.Data, &detail); err != nil {
			t.Fatalf("decode detail: %v", err)
		}
		if detail.Views != want || detail.Title != "intro" || detail.Owner.ID.String() != aliceID {
			t.Fatalf("detail = %+v, want views %d", detail, want)
		}
	}

	w, env := s.do(t, authed(http.MethodGet, "/api/v1/users/history", bob))
	if w.Code != http.StatusOK {
		t.Fatalf("history: %d %s", w.Code, env.Message)
	}
	var history views.Paginated[views.WatchedVideo]
	if err := json.Unmarshal(env.Data, &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if history.TotalDocs != 1 || history.Docs[0].ID.String() != videoID || history.Docs[0].Title != "intro" {
		t.Fatalf("history = %+v", history)
	}
}

func TestPaginationFallsBackOnListRoutes(t *testing.T) {
	s := newServer(t)
	_, alice := signUp(t, s, "alice")
	videoID := publish(t, s, alice, "talk")

	for i := 0; i < 3; i++ {
		w, env := s.do(t, jsonRequest(t, http.MethodPost, "/api/v1/comments/"+videoID, alice, map[string]string{"content": "nice"}))
		if w.Code != http.StatusCreated {
			t.Fatalf("add comment: %d %s", w.Code, env.Message)
		}
	}

	for _, query := range []string{"?page=0&limit=abc", "?page=-2&limit=0", "?page=x"} {
		w, env := s.do(t, authed(http.MethodGet, "/api/v1/comments/"+videoID+query, alice))
		if w.Code != http.StatusOK {
			t.Fatalf("comments%s: %d %s", query, w.Code, env.Message)
		}
		var page views.Paginated[views.CommentView]
		if err := json.Unmarshal(env.Data, &page); err != nil {
			t.Fatalf("decode page: %v", err)
		}
		if page.Page != 1 || page.Limit != 10 || page.TotalDocs != 3 || len(page.Docs) != 3 {
			t.Fatalf("comments%s = page %d limit %d total %d docs %d", query, page.Page, page.Limit, page.TotalDocs, len(page.Docs))
		}
	}
}

func TestNonOwnerGetsForbiddenEnvelope(t *testing.T) {
	s := newServer(t)
	_, alice := signUp(t, s, "alice")
	_, bob := signUp(t, s, "bob")
	videoID := publish(t, s, alice, "mine")

	w, env := s.do(t, authed(http.MethodDelete, "/api/v1/videos/"+videoID, bob))
	if w.Code != http.StatusForbidden || env.Success || env.Errors == nil {
		t.Fatalf("delete by non-owner: %d %+v", w.Code, env)
	}
	w, _ = s.do(t, authed(http.MethodPatch, "/api/v1/videos/toggle/publish/"+videoID, bob))
	if w.Code != http.StatusForbidden {
		t.Fatalf("toggle publish by non-owner: %d", w.Code)
	}

	w, env = s.do(t, authed(http.MethodGet, "/api/v1/videos/"+videoID, alice))
	if w.Code != http.StatusOK {
		t.Fatalf("video should survive: %d %s", w.Code, env.Message)
	}
}

func TestToggleRoutes(t *testing.T) {
	s := newServer(t)
	aliceID, alice := signUp(t, s, "alice")
	_, bob := signUp(t, s, "bob")
	videoID := publish(t, s, alice, "clip")

	var liked struct {
		IsLiked    bool  `json:"isLiked"`
		LikesCount int64 `json:"likesCount"`
	}
	w, env := s.do(t, authed(http.MethodPost, "/api/v1/likes/toggle/v/"+videoID, bob))
	if err := json.Unmarshal(env.Data, &liked); err != nil || w.Code != http.StatusOK || !liked.IsLiked || liked.LikesCount != 1 {
		t.Fatalf("like: %d %s %+v", w.Code, env.Message, liked)
	}
	if env.Message != "Like added successfully" {
		t.Fatalf("message = %q", env.Message)
	}
	w, env = s.do(t, authed(http.MethodPost, "/api/v1/likes/toggle/video/"+videoID, bob))
	if err := json.Unmarshal(env.Data, &liked); err != nil || w.Code != http.StatusOK || liked.IsLiked || liked.LikesCount != 0 {
		t.Fatalf("unlike: %d %s %+v", w.Code, env.Message, liked)
	}
	w, _ = s.do(t, authed(http.MethodPost, "/api/v1/likes/toggle/t/"+videoID, bob))
	if w.Code != http.StatusNotFound {
		t.Fatalf("like missing tweet: %d", w.Code)
	}

	var sub struct {
		Subscribed       bool  `json:"subscribed"`
		SubscribersCount int64 `json:"subscribersCount"`
	}
	w, env = s.do(t, authed(http.MethodPost, "/api/v1/subscriptions/"+aliceID, bob))
	if err := json.Unmarshal(env.Data, &sub); err != nil || w.Code != http.StatusOK || !sub.Subscribed || sub.SubscribersCount != 1 {
		t.Fatalf("subscribe: %d %s %+v", w.Code, env.Message, sub)
	}
	w, env = s.do(t, authed(http.MethodPost, "/api/v1/subscriptions/"+aliceID, bob))
	if err := json.Unmarshal(env.Data, &sub); err != nil || w.Code != http.StatusOK || sub.Subscribed || sub.SubscribersCount != 0 {
		t.Fatalf("unsubscribe: %d %s %+v", w.Code, env.Message, sub)
	}
	w, _ = s.do(t, authed(http.MethodPost, "/api/v1/subscriptions/"+aliceID, alice))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self subscription: %d", w.Code)
	}
}

func TestPlaylistDuplicateAddIsConflict(t *testing.T) {
	s := newServer(t)
	_, alice := signUp(t, s, "alice")
	videoID := publish(t, s, alice, "track")

	w, env := s.do(t, jsonRequest(t, http.MethodPost, "/api/v1/playlists", alice, map[string]string{"name": "mix", "description": "songs"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("create playlist: %d %s", w.Code, env.Message)
	}
	var playlist struct {
		ID     string   `json:"id"`
		Videos []string `json:"videos"`
	}
	if err := json.Unmarshal(env.Data, &playlist); err != nil || playlist.ID == "" {
		t.Fatalf("playlist data: %v %s", err, env.Data)
	}

	target := "/api/v1/playlists/add/" + videoID + "/" + playlist.ID
	w, env = s.do(t, authed(http.MethodPatch, target, alice))
	if w.Code != http.StatusOK {
		t.Fatalf("first add: %d %s", w.Code, env.Message)
	}
	w, env = s.do(t, authed(http.MethodPatch, target, alice))
	if w.Code != http.StatusConflict || env.Message != "Video already exists in the playlist" {
		t.Fatalf("second add: %d %s", w.Code, env.Message)
	}

	w, env = s.do(t, authed(http.MethodGet, "/api/v1/playlists/"+playlist.ID, alice))
	if w.Code != http.StatusOK {
		t.Fatalf("get playlist: %d %s", w.Code, env.Message)
	}
	var detail views.PlaylistDetail
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		t.Fatalf("decode playlist: %v", err)
	}
	if len(detail.Videos) != 1 || detail.Videos[0].ID.String() != videoID {
		t.Fatalf("playlist videos = %+v", detail.Videos)
	}
}
