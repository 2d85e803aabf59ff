package uploader

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my-party-photo--1-.jpg", SanitizeFilename("my party photo (1).jpg"))
	assert.Equal(t, "flyer.v2.png", SanitizeFilename("flyer.v2.png"))
	assert.Equal(t, "caf--menu.png", SanitizeFilename("café menu.png"))
}

func TestEventImageKey(t *testing.T) {
	id := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	at := time.UnixMilli(1759320000000)

	key := EventImageKey(id, "cover shot.jpg", at)
	assert.Equal(t, "events/7c9e6679-7425-40de-944b-e07fc1f90ae7/1759320000000-cover-shot.jpg", key)
	assert.Equal(t, "events/7c9e6679-7425-40de-944b-e07fc1f90ae7/1759320000000-cover-shot", publicID(key))
	assert.Equal(t, "events/a.b/noext", publicID("events/a.b/noext"))
}

type capturedUpload struct {
	path        string
	apiKey      string
	auth        string
	filename    string
	contentType string
	partName    string
	body        string
}

func functionServer(t *testing.T, status int, reply map[string]string, got *capturedUpload) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.apiKey = r.Header.Get("apikey")
		got.auth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		got.filename = r.FormValue("filename")
		got.contentType = r.FormValue("contentType")
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		got.partName = hdr.Filename
		b, _ := io.ReadAll(f)
		got.body = string(b)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFunctionUploader_Upload(t *testing.T) {
	var got capturedUpload
	srv := functionServer(t, http.StatusOK, map[string]string{"publicUrl": "https://cdn.example.com/events/x.jpg"}, &got)

	u := NewFunctionUploader(srv.URL+"/", "anon-key", "")
	url, err := u.Upload(context.Background(), "events/x/1-photo.jpg", strings.NewReader("jpeg-bytes"), "photo.jpg", "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/events/x.jpg", url)
	assert.Equal(t, "/functions/v1/"+DefaultFunction, got.path)
	assert.Equal(t, "anon-key", got.apiKey)
	assert.Equal(t, "Bearer anon-key", got.auth, "falls back to the anon key without a user token")
	assert.Equal(t, "events/x/1-photo.jpg", got.filename)
	assert.Equal(t, "image/jpeg", got.contentType)
	assert.Equal(t, "photo.jpg", got.partName)
	assert.Equal(t, "jpeg-bytes", got.body)
}

func TestFunctionUploader_UsesUserToken(t *testing.T) {
	var got capturedUpload
	srv := functionServer(t, http.StatusOK, map[string]string{"publicUrl": "https://cdn.example.com/a.png"}, &got)

	u := NewFunctionUploader(srv.URL, "anon-key", "custom-upload")
	ctx := store.WithAccessToken(context.Background(), "user-jwt")
	_, err := u.Upload(ctx, "events/a.png", strings.NewReader("png"), "a.png", "")

	require.NoError(t, err)
	assert.Equal(t, "/functions/v1/custom-upload", got.path)
	assert.Equal(t, "Bearer user-jwt", got.auth)
	assert.Equal(t, "application/octet-stream", got.contentType)
}

func TestFunctionUploader_MissingPublicURL(t *testing.T) {
	var got capturedUpload
	srv := functionServer(t, http.StatusOK, map[string]string{}, &got)

	u := NewFunctionUploader(srv.URL, "anon-key", "")
	_, err := u.Upload(context.Background(), "events/a.png", strings.NewReader("png"), "a.png", "image/png")

	assert.ErrorIs(t, err, ErrMissingPublicURL)
}

func TestFunctionUploader_ErrorStatus(t *testing.T) {
	var got capturedUpload
	srv := functionServer(t, http.StatusInternalServerError, map[string]string{"error": "bucket unavailable"}, &got)

	u := NewFunctionUploader(srv.URL, "anon-key", "")
	_, err := u.Upload(context.Background(), "events/a.png", strings.NewReader("png"), "a.png", "image/png")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "bucket unavailable")
}
