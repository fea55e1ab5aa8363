package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/persistence"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, name string, content io.Reader, size int64, contentType string) (string, string, error) {
	args := m.Called(ctx, name, content, size, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) Remove(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

func init() {
	gin.SetMode(gin.TestMode)
}

// withCaller stands in for the auth middleware.
func withCaller(rc model.RequestContext) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("request_context", rc)
		ctx.Next()
	}
}

func uploadBody(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withFile {
		part, err := w.CreateFormFile("video", "clip.mp4")
		require.NoError(t, err)
		_, err = part.Write([]byte("0123456789"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func newUploadRouter(storage *MockStorage, rc model.RequestContext) (*gin.Engine, *persistence.MemoryStore) {
	store := persistence.NewMemoryStore()
	videos := usecase.NewVideoUsecase(store.Videos(), store.Reactions(), store.Comments(), storage, nil)
	h := NewVideoHandler(nil, nil, videos, 0)

	r := gin.New()
	r.POST("/video/upload", withCaller(rc), h.Upload)
	return r, store
}

func TestUpload(t *testing.T) {
	storage := new(MockStorage)
	storage.On("Upload", mock.Anything, "clip.mp4", mock.Anything, int64(10), "application/octet-stream").
		Return("http://media/videos/abc.mp4", "abc.mp4", nil).Once()
	creator := model.Authenticated(model.Identity{UserID: "X", Role: model.RoleCreator})
	r, store := newUploadRouter(storage, creator)

	body, contentType := uploadBody(t, map[string]string{
		"title":    "Clip",
		"tags":     "go, feed ,go",
		"hashtags": "#go",
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/video/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		Message string      `json:"message"`
		Video   model.Video `json:"video"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Video uploaded successfully", res.Message)
	assert.Equal(t, "X", res.Video.Creator)
	assert.Equal(t, []string{"go", "feed"}, res.Video.Tags)
	assert.Equal(t, []string{"#go"}, res.Video.Hashtags)
	assert.Equal(t, "http://media/videos/abc.mp4", res.Video.URL)

	n, err := store.Videos().Count(context.Background(), model.VideoFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	storage.AssertExpectations(t)
}

func TestUpload_Rejections(t *testing.T) {
	storage := new(MockStorage)
	user := model.Authenticated(model.Identity{UserID: "u", Role: model.RoleUser})
	creator := model.Authenticated(model.Identity{UserID: "X", Role: model.RoleCreator})

	tests := []struct {
		name     string
		rc       model.RequestContext
		fields   map[string]string
		withFile bool
		status   int
	}{
		{"no file", creator, map[string]string{"title": "t"}, false, http.StatusBadRequest},
		{"not a creator", user, map[string]string{"title": "t"}, true, http.StatusForbidden},
		{"no title", creator, map[string]string{}, true, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newUploadRouter(storage, tt.rc)
			body, contentType := uploadBody(t, tt.fields, tt.withFile)
			req := httptest.NewRequest(http.MethodPost, "/video/upload", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{model.NotFound(model.MsgVideoNotFound), http.StatusNotFound, model.MsgVideoNotFound},
		{model.Unavailable(model.MsgNoVideosAvailable), http.StatusNotFound, model.MsgNoVideosAvailable},
		{model.InvalidArgument("Invalid action type"), http.StatusBadRequest, "Invalid action type"},
		{fmt.Errorf("wrapped: %w", model.Forbidden("Access denied")), http.StatusForbidden, "Access denied"},
		{model.ErrNotFound, http.StatusNotFound, "Not Found"},
		{errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(rec)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			writeError(ctx, tt.err)

			require.Equal(t, tt.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["message"])
			if tt.status == http.StatusInternalServerError {
				assert.Len(t, body["reference"], 36)
				assert.NotContains(t, rec.Body.String(), "connection reset")
			}
		})
	}
}
