package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/x", handler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestOKEnvelope(t *testing.T) {
	w := serve(func(c *gin.Context) {
		OK(c, http.StatusCreated, gin.H{"id": "1"}, "Video uploaded successfully")
	})

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusCreated || body["statusCode"].(float64) != 201 || body["success"] != true {
		t.Fatalf("unexpected envelope %d %v", w.Code, body)
	}
	if body["message"] != "Video uploaded successfully" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestErrorEnvelopeMirrorsStatus(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Error(c, logger.Discard(), errs.Forbidden("You are not allowed to edit this video"))
	})

	var body Failure
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusForbidden || body.StatusCode != http.StatusForbidden || body.Success {
		t.Fatalf("unexpected failure %d %+v", w.Code, body)
	}
	if body.Message != "You are not allowed to edit this video" || body.Errors == nil {
		t.Fatalf("unexpected failure body %+v", body)
	}
}

func TestInternalErrorsAreMasked(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Error(c, logger.Discard(), errors.New("pq: connection refused"))
	})

	var body Failure
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if w.Code != http.StatusInternalServerError || body.Message != "Something went wrong" {
		t.Fatalf("internal cause leaked: %d %+v", w.Code, body)
	}
}
