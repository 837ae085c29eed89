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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadHandler_Upload(t *testing.T) {
	t.Run("stores png and returns url", func(t *testing.T) {
		dir := t.TempDir()
		handler := NewUploadHandler(dir, "http://localhost:4000")

		body, contentType := multipartBody(t, "image", "tree.png", pngHeader)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody(t, w)
		assert.Equal(t, true, resp["success"])
		url := resp["url"].(string)
		assert.True(t, strings.HasPrefix(url, "http://localhost:4000/uploads/"))
		assert.True(t, strings.HasSuffix(url, ".png"))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		written, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
		require.NoError(t, err)
		assert.Equal(t, pngHeader, written)
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		handler := NewUploadHandler(t.TempDir(), "http://localhost:4000")

		body, contentType := multipartBody(t, "image", "notes.txt", []byte("just some text"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeBody(t, w)
		assert.Equal(t, "file type not allowed", resp["error"])
	})

	t.Run("rejects missing file field", func(t *testing.T) {
		handler := NewUploadHandler(t.TempDir(), "http://localhost:4000")

		body, contentType := multipartBody(t, "document", "tree.png", pngHeader)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects oversize upload", func(t *testing.T) {
		handler := NewUploadHandler(t.TempDir(), "http://localhost:4000")

		big := append(append([]byte{}, pngHeader...), make([]byte, maxUploadSize)...)
		body, contentType := multipartBody(t, "image", "huge.png", big)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
