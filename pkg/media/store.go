// Package media moves staged uploads into object storage.
package media

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/vidtube/vidtube/internal/config"
	"github.com/vidtube/vidtube/pkg/logger"
)

type Category string

const (
	CategoryVideo     Category = "videos"
	CategoryThumbnail Category = "thumbnails"
	CategoryAvatar    Category = "avatars"
	CategoryCover     Category = "covers"
)

// Asset describes an uploaded object.
type Asset struct {
	URL         string  `json:"url"`
	Key         string  `json:"key"`
	ContentType string  `json:"contentType"`
	Size        int64   `json:"size"`
	Duration    float64 `json:"duration"`
}

// Store uploads local files and deletes them again by URL.
// Upload always removes localPath, whether it succeeds or not.
type Store interface {
	Upload(ctx context.Context, localPath string, category Category) (*Asset, error)
	Delete(ctx context.Context, rawURL string) error
}

type objectClient interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Prober returns the playback duration of a media file in seconds.
type Prober func(path string) (float64, error)

type MinioStore struct {
	client  objectClient
	bucket  string
	baseURL string
	probe   Prober
	logger  *logger.Logger
}

const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// NewMinioStore connects to MinIO and ensures a publicly readable bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.StorageConfig, log *logger.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "init minio client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.WithMessage(err, "check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.WithMessage(err, "create bucket")
		}
		if err := client.SetBucketPolicy(ctx, cfg.Bucket, fmt.Sprintf(publicReadPolicy, cfg.Bucket)); err != nil {
			return nil, errors.WithMessage(err, "set bucket policy")
		}
	}

	return newStore(client, cfg.Bucket, cfg.BaseURL(), ProbeDuration, log), nil
}

func newStore(client objectClient, bucket, baseURL string, probe Prober, log *logger.Logger) *MinioStore {
	return &MinioStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		probe:   probe,
		logger:  log,
	}
}

func (s *MinioStore) Upload(ctx context.Context, localPath string, category Category) (*Asset, error) {
	if localPath == "" {
		return nil, errors.New("no local file to upload")
	}
	defer RemoveLocal(localPath)

	info, err := os.Stat(localPath)
	if err != nil {
		return nil, errors.WithMessage(err, "stat staged file")
	}

	ext := strings.ToLower(filepath.Ext(localPath))
	key := path.Join(string(category), uuid.NewString()+ext)
	contentType := contentTypeFor(ext)

	if _, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return nil, errors.WithMessagef(err, "upload %s", key)
	}

	asset := &Asset{
		URL:         s.baseURL + "/" + key,
		Key:         key,
		ContentType: contentType,
		Size:        info.Size(),
	}

	if category == CategoryVideo && s.probe != nil {
		duration, err := s.probe(localPath)
		if err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Failed to probe media duration")
		} else {
			asset.Duration = duration
		}
	}

	return asset, nil
}

func (s *MinioStore) Delete(ctx context.Context, rawURL string) error {
	key, err := KeyFromURL(rawURL)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.WithMessagef(err, "delete %s", key)
	}
	return nil
}

// KeyFromURL recovers the object key (folder/name.ext) from a URL produced by Upload.
func KeyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", errors.WithMessage(err, "parse media url")
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-1] == "" || segments[len(segments)-2] == "" {
		return "", errors.Errorf("media url %q has no object key", rawURL)
	}

	folder, err := url.PathUnescape(segments[len(segments)-2])
	if err != nil {
		return "", errors.WithMessage(err, "unescape folder")
	}
	name, err := url.PathUnescape(segments[len(segments)-1])
	if err != nil {
		return "", errors.WithMessage(err, "unescape name")
	}
	return folder + "/" + name, nil
}

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
}

func contentTypeFor(ext string) string {
	if ct, ok := videoTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// RemoveLocal deletes staged files, ignoring ones that are already gone.
func RemoveLocal(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		_ = os.Remove(p)
	}
}
