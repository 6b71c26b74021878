package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/vidtube/vidtube/pkg/logger"
)

type fakeClient struct {
	putErr  error
	puts    []string
	removed []string
}

func (f *fakeClient) FPutObject(_ context.Context, _, objectName, filePath string, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	if _, err := os.Stat(filePath); err != nil {
		return minio.UploadInfo{}, err
	}
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	f.puts = append(f.puts, objectName)
	return minio.UploadInfo{Key: objectName}, nil
}

func (f *fakeClient) RemoveObject(_ context.Context, _, objectName string, _ minio.RemoveObjectOptions) error {
	f.removed = append(f.removed, objectName)
	return nil
}

func stageFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
		t.Fatalf("write staged file: %v", err)
	}
	return p
}

func TestUploadRemovesLocalFileOnSuccess(t *testing.T) {
	client := &fakeClient{}
	store := newStore(client, "vidtube", "http://cdn.local/vidtube/", func(string) (float64, error) { return 12.5, nil }, logger.Discard())
	local := stageFile(t, "clip.mp4")

	asset, err := store.Upload(context.Background(), local, CategoryVideo)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := os.Stat(local); !os.IsNotExist(err) {
		t.Fatalf("staged file should be removed, stat err = %v", err)
	}
	if !strings.HasPrefix(asset.URL, "http://cdn.local/vidtube/videos/") || !strings.HasSuffix(asset.URL, ".mp4") {
		t.Fatalf("unexpected url %q", asset.URL)
	}
	if asset.Duration != 12.5 {
		t.Fatalf("duration = %v", asset.Duration)
	}
	if asset.ContentType != "video/mp4" {
		t.Fatalf("content type = %q", asset.ContentType)
	}
}

func TestUploadRemovesLocalFileOnFailure(t *testing.T) {
	client := &fakeClient{putErr: errors.New("bucket unavailable")}
	store := newStore(client, "vidtube", "http://cdn.local/vidtube", nil, logger.Discard())
	local := stageFile(t, "avatar.png")

	if _, err := store.Upload(context.Background(), local, CategoryAvatar); err == nil {
		t.Fatalf("expected upload error")
	}
	if _, err := os.Stat(local); !os.IsNotExist(err) {
		t.Fatalf("staged file should be removed after failure")
	}
}

func TestUploadWithoutPathFails(t *testing.T) {
	store := newStore(&fakeClient{}, "vidtube", "http://cdn.local/vidtube", nil, logger.Discard())
	if _, err := store.Upload(context.Background(), "", CategoryCover); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestProbeFailureKeepsUpload(t *testing.T) {
	client := &fakeClient{}
	store := newStore(client, "vidtube", "http://cdn.local/vidtube", func(string) (float64, error) {
		return 0, errors.New("ffprobe missing")
	}, logger.Discard())

	asset, err := store.Upload(context.Background(), stageFile(t, "clip.mp4"), CategoryVideo)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if asset.Duration != 0 || len(client.puts) != 1 {
		t.Fatalf("unexpected asset %+v / puts %v", asset, client.puts)
	}
}

func TestDeleteUsesKeyFromURL(t *testing.T) {
	client := &fakeClient{}
	store := newStore(client, "vidtube", "http://cdn.local/vidtube", nil, logger.Discard())

	if err := store.Delete(context.Background(), "http://cdn.local/vidtube/thumbnails/abc.jpg"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(client.removed) != 1 || client.removed[0] != "thumbnails/abc.jpg" {
		t.Fatalf("removed = %v", client.removed)
	}
}

func TestKeyFromURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "http://cdn.local/vidtube/videos/a1.mp4", want: "videos/a1.mp4"},
		{in: "https://s3.example.com/bucket/avatars/me%20too.png?x=1", want: "avatars/me too.png"},
		{in: "http://cdn.local/covers/c.webp/", want: "covers/c.webp"},
		{in: "http://cdn.local/only", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, c := range cases {
		got, err := KeyFromURL(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%q: got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration(`{"format":{"duration":"63.456789"}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d != 63.46 {
		t.Fatalf("duration = %v", d)
	}
	if _, err := parseDuration(`{"streams":[]}`); err == nil {
		t.Fatalf("expected error without duration")
	}
}
