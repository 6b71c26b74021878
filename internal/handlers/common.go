package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/views"
)

// Staging saves multipart files to a local directory before they are handed
// to the media store.
type Staging struct {
	Dir      string
	MaxBytes int64
}

// Save stores the file under field and returns its local path, or "" when
// the request carries no such file.
func (s Staging) Save(c *gin.Context, field string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", errs.InvalidArgument(fmt.Sprintf("Invalid %s upload", field))
	}
	if s.MaxBytes > 0 && header.Size > s.MaxBytes {
		return "", errs.InvalidArgument(fmt.Sprintf("%s is too large", field))
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errs.Internal(err, "Failed to stage upload")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	dst := filepath.Join(s.Dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(header, dst); err != nil {
		return "", errs.Internal(err, "Failed to stage upload")
	}
	return dst, nil
}

func pageFrom(c *gin.Context) views.Page {
	return views.ParsePage(c.Query("page"), c.Query("limit"))
}

// bindJSON tolerates an empty body so services can report missing fields.
func bindJSON(c *gin.Context, dest interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dest); err != nil {
		return errs.InvalidArgument("Invalid request body")
	}
	return nil
}
