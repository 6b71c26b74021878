package views

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/models"
	"github.com/vidtube/vidtube/internal/repository"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	composer *Composer
	alice    *models.User
	bob      *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "views_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{db: db.DB, composer: NewComposer(db.DB)}
	f.alice = f.user(t, "alice")
	f.bob = f.user(t, "bob")
	return f
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", FullName: name, Avatar: "http://cdn/avatars/" + name + ".png", Password: "x"}
	if err := f.db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) video(t *testing.T, owner *models.User, title string, views int64, published bool, created time.Time) *models.Video {
	t.Helper()
	v := &models.Video{
		VideoFile:   "http://cdn/videos/" + title + ".mp4",
		Thumbnail:   "http://cdn/thumbnails/" + title + ".jpg",
		Title:       title,
		Description: "about " + title,
		Duration:    10,
		Views:       views,
		IsPublished: published,
		OwnerID:     owner.ID,
	}
	v.CreatedAt = created
	if err := f.db.Create(v).Error; err != nil {
		t.Fatalf("create video: %v", err)
	}
	return v
}

func (f *fixture) like(t *testing.T, user *models.User, target models.LikeTarget) {
	t.Helper()
	if _, err := repository.NewLikeRepository(f.db).Toggle(context.Background(), user.ID, target); err != nil {
		t.Fatalf("like: %v", err)
	}
}

func TestListVideosFiltersSortsAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	cats := f.video(t, f.alice, "Cats compilation", 50, true, base)
	f.video(t, f.alice, "Dogs", 500, true, base.Add(time.Minute))
	f.video(t, f.bob, "More CATS", 5, true, base.Add(2*time.Minute))
	f.video(t, f.bob, "cats draft", 0, false, base.Add(3*time.Minute))
	f.like(t, f.bob, models.VideoTarget(cats.ID))

	all, err := f.composer.ListVideos(ctx, VideoFilter{ViewerID: f.alice.ID}, ParseSort("", "", VideoSortKeys), ParsePage("", ""))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.TotalDocs != 3 {
		t.Fatalf("drafts of other users must be hidden, total = %d", all.TotalDocs)
	}
	if all.Docs[0].Title != "More CATS" {
		t.Fatalf("default order should be newest first, got %q", all.Docs[0].Title)
	}

	search, err := f.composer.ListVideos(ctx, VideoFilter{Query: "cats", ViewerID: f.bob.ID}, ParseSort("views", "desc", VideoSortKeys), ParsePage("1", "10"))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if search.TotalDocs != 3 {
		t.Fatalf("owner should see own draft in search, total = %d", search.TotalDocs)
	}
	if search.Docs[0].ID != cats.ID || search.Docs[0].LikesCount != 1 {
		t.Fatalf("expected most viewed match with one like, got %+v", search.Docs[0])
	}
	if search.Docs[0].Owner.Username != "alice" {
		t.Fatalf("owner summary missing: %+v", search.Docs[0].Owner)
	}

	byOwner, err := f.composer.ListVideos(ctx, VideoFilter{OwnerID: f.alice.ID, ViewerID: f.bob.ID}, ParseSort("title", "asc", VideoSortKeys), Page{Page: 2, Limit: 1})
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if byOwner.TotalDocs != 2 || len(byOwner.Docs) != 1 || byOwner.Docs[0].Title != "Dogs" {
		t.Fatalf("unexpected second page: %+v", byOwner)
	}

	empty, err := f.composer.ListVideos(ctx, VideoFilter{Query: "100%", ViewerID: f.bob.ID}, ParseSort("", "", VideoSortKeys), ParsePage("", ""))
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if empty.Docs == nil || len(empty.Docs) != 0 {
		t.Fatalf("empty result should be an empty slice")
	}
}

func TestVideoDetailHidesDrafts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.video(t, f.alice, "draft", 0, false, time.Now())

	if _, err := f.composer.VideoDetail(ctx, draft.ID, f.bob.ID); !errs.Is(err, errs.KindNotFound) {
		t.Fatalf("draft should be not found for others, got %v", err)
	}
	detail, err := f.composer.VideoDetail(ctx, draft.ID, f.alice.ID)
	if err != nil {
		t.Fatalf("owner detail: %v", err)
	}
	if detail.VideoFile == "" || detail.Owner.ID != f.alice.ID {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if _, err := f.composer.VideoDetail(ctx, uuid.New(), f.alice.ID); !errs.Is(err, errs.KindNotFound) {
		t.Fatalf("missing video should be not found, got %v", err)
	}
}

func TestVideoDetailForOtherViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v := f.video(t, f.alice, "public", 7, true, time.Now())
	f.like(t, f.bob, models.VideoTarget(v.ID))

	detail, err := f.composer.VideoDetail(ctx, v.ID, f.bob.ID)
	if err != nil {
		t.Fatalf("published video should be visible: %v", err)
	}
	if detail.ID != v.ID || detail.Title != "public" || detail.Views != 7 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.Owner.ID != f.alice.ID || detail.Owner.Username != f.alice.Username {
		t.Fatalf("owner not inlined: %+v", detail.Owner)
	}
	if !detail.IsLiked || detail.LikesCount != 1 {
		t.Fatalf("like state = %v/%d", detail.IsLiked, detail.LikesCount)
	}
}

func TestChannelProfileCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	subs := repository.NewSubscriptionRepository(f.db)

	if _, err := subs.Toggle(ctx, f.bob.ID, f.alice.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	f.video(t, f.alice, "one", 0, true, time.Now())

	profile, err := f.composer.ChannelProfile(ctx, "ALICE", f.bob.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.SubscribersCount != 1 || !profile.IsSubscribed || profile.VideosCount != 1 || profile.SubscribedToCount != 0 {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, err := f.composer.ChannelProfile(ctx, "nobody", f.bob.ID); !errs.Is(err, errs.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	subscribers, err := f.composer.ListSubscribers(ctx, f.alice.ID, ParsePage("", ""))
	if err != nil {
		t.Fatalf("subscribers: %v", err)
	}
	if subscribers.TotalDocs != 1 || subscribers.Docs[0].Username != "bob" {
		t.Fatalf("unexpected subscribers: %+v", subscribers)
	}

	channels, err := f.composer.ListSubscribedChannels(ctx, f.bob.ID, ParsePage("", ""))
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	if channels.TotalDocs != 1 || channels.Docs[0].ID != f.alice.ID || channels.Docs[0].SubscribersCount != 1 {
		t.Fatalf("unexpected channels: %+v", channels)
	}
}

func TestCommentsAndTweets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	video := f.video(t, f.alice, "v", 0, true, time.Now())
	comment := &models.Comment{Content: "nice", VideoID: video.ID, OwnerID: f.bob.ID}
	if err := f.db.Create(comment).Error; err != nil {
		t.Fatalf("comment: %v", err)
	}
	f.like(t, f.alice, models.CommentTarget(comment.ID))

	comments, err := f.composer.ListComments(ctx, video.ID, f.alice.ID, ParsePage("", ""))
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	if comments.TotalDocs != 1 || comments.Docs[0].Owner.Username != "bob" || comments.Docs[0].LikesCount != 1 || !comments.Docs[0].IsLiked {
		t.Fatalf("unexpected comments: %+v", comments.Docs)
	}

	tweet := &models.Tweet{Content: "hello", OwnerID: f.alice.ID}
	if err := f.db.Create(tweet).Error; err != nil {
		t.Fatalf("tweet: %v", err)
	}
	tweets, err := f.composer.ListTweets(ctx, f.alice.ID, f.bob.ID, ParsePage("", ""))
	if err != nil {
		t.Fatalf("tweets: %v", err)
	}
	if tweets.TotalDocs != 1 || tweets.Docs[0].IsLiked || tweets.Docs[0].Owner.ID != f.alice.ID {
		t.Fatalf("unexpected tweets: %+v", tweets.Docs)
	}
}

func TestPlaylistViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	playlists := repository.NewPlaylistRepository(f.db)

	first := f.video(t, f.alice, "first", 3, true, time.Now())
	second := f.video(t, f.alice, "second", 4, true, time.Now())
	hidden := f.video(t, f.bob, "hidden", 100, false, time.Now())

	pl := &models.Playlist{Name: "mix", Description: "d", OwnerID: f.alice.ID}
	if err := playlists.Create(ctx, pl); err != nil {
		t.Fatalf("create playlist: %v", err)
	}
	for _, v := range []*models.Video{first, second, hidden} {
		if _, err := playlists.AddVideo(ctx, pl.ID, v.ID); err != nil {
			t.Fatalf("add video: %v", err)
		}
	}

	list, err := f.composer.ListPlaylists(ctx, f.alice.ID, ParsePage("", ""))
	if err != nil {
		t.Fatalf("list playlists: %v", err)
	}
	if list.TotalDocs != 1 || list.Docs[0].VideosCount != 3 || list.Docs[0].PreviewThumbnail != first.Thumbnail {
		t.Fatalf("unexpected playlist summary: %+v", list.Docs)
	}

	detail, err := f.composer.PlaylistDetail(ctx, pl.ID, f.alice.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.VideosCount != 2 || detail.Videos[0].ID != first.ID || detail.TotalViews != 7 {
		t.Fatalf("unexpected playlist detail: %+v", detail)
	}

	if _, err := f.composer.PlaylistDetail(ctx, uuid.New(), f.alice.ID); !errs.Is(err, errs.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHistoryLikedAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	history := repository.NewWatchHistoryRepository(f.db)

	a := f.video(t, f.alice, "a", 10, true, time.Now())
	b := f.video(t, f.alice, "b", 20, true, time.Now())

	if err := history.Record(ctx, f.bob.ID, a.ID); err != nil {
		t.Fatalf("record: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := history.Record(ctx, f.bob.ID, b.ID); err != nil {
		t.Fatalf("record: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := history.Record(ctx, f.bob.ID, a.ID); err != nil {
		t.Fatalf("record again: %v", err)
	}

	watched, err := f.composer.WatchHistory(ctx, f.bob.ID, ParsePage("", ""))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if watched.TotalDocs != 2 || watched.Docs[0].ID != a.ID {
		t.Fatalf("re-watched video should lead the history: %+v", watched.Docs)
	}
	if watched.Docs[0].Title != "a" || watched.Docs[0].Owner.ID != f.alice.ID || watched.Docs[0].WatchedAt.IsZero() {
		t.Fatalf("history card not populated: %+v", watched.Docs[0])
	}

	f.like(t, f.bob, models.VideoTarget(b.ID))
	liked, err := f.composer.LikedVideos(ctx, f.bob.ID, ParsePage("", ""))
	if err != nil {
		t.Fatalf("liked: %v", err)
	}
	if liked.TotalDocs != 1 || liked.Docs[0].ID != b.ID {
		t.Fatalf("unexpected liked videos: %+v", liked.Docs)
	}
	if liked.Docs[0].Title != "b" || liked.Docs[0].Owner.Username != f.alice.Username || liked.Docs[0].LikesCount != 1 {
		t.Fatalf("liked card not populated: %+v", liked.Docs[0])
	}

	stats, err := f.composer.ChannelStats(ctx, f.alice.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := ChannelStats{TotalVideos: 2, TotalViews: 30, TotalSubscribers: 0, TotalLikes: 1}
	if *stats != want {
		t.Fatalf("stats = %+v, want %+v", *stats, want)
	}

	dash, err := f.composer.ChannelVideos(ctx, f.alice.ID, ParsePage("", ""))
	if err != nil {
		t.Fatalf("channel videos: %v", err)
	}
	if dash.TotalDocs != 2 {
		t.Fatalf("channel videos total = %d", dash.TotalDocs)
	}
}
