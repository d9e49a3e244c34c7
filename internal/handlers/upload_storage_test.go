package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/file/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImageStoresFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	storage := NewUploadStorage(dir, "http://api.local/")
	r := gin.New()
	r.POST("/api/file/upload", UploadImage(storage))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "image", "Perro.PNG", []byte("fake png")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	env := decodeEnvelope(t, w)
	assert.Equal(t, "Imagen cargada exitosamente", env.Message)
	var data struct {
		URL string `json:"url"`
	}
	decodeData(t, env, &data)
	require.True(t, strings.HasPrefix(data.URL, "http://api.local/uploads/"), data.URL)
	assert.True(t, strings.HasSuffix(data.URL, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(data.URL, "http://api.local/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "fake png", string(stored))

	require.NoError(t, storage.Delete(data.URL))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadImageRejections(t *testing.T) {
	storage := NewUploadStorage(t.TempDir(), "http://api.local")
	r := gin.New()
	r.POST("/api/file/upload", UploadImage(storage))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "", "", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Proporcione una imagen", decodeEnvelope(t, w).Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "image", "script.sh", []byte("#!/bin/sh")))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "image", "big.jpg", bytes.Repeat([]byte{1}, maxImageSize+1)))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadStorageDeleteIgnoresForeignAndEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(filepath.Dir(dir), "keep.png")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	t.Cleanup(func() { os.Remove(outside) })

	storage := NewUploadStorage(dir, "http://api.local")

	assert.NoError(t, storage.Delete("https://cdn.example.com/uploads/a.png"))
	assert.NoError(t, storage.Delete(""))
	assert.NoError(t, storage.Delete("http://api.local/uploads/missing.png"))
	assert.Error(t, storage.Delete("http://api.local/uploads/"))

	_ = storage.Delete("http://api.local/uploads/../keep.png")
	_, err := os.Stat(outside)
	assert.NoError(t, err, "files outside the upload dir survive")
}
