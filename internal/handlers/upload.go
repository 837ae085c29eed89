package handlers

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// maxUploadSize caps photo uploads at 5 MB.
const maxUploadSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadHandler stores contribution photos on local disk and returns a public
// URL for them.
type UploadHandler struct {
	uploadsDir string
	baseURL    string
}

// NewUploadHandler creates an upload handler writing into uploadsDir. URLs in
// responses are prefixed with baseURL.
func NewUploadHandler(uploadsDir, baseURL string) *UploadHandler {
	return &UploadHandler{uploadsDir: uploadsDir, baseURL: baseURL}
}

// Upload handles POST /api/upload with a multipart "image" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, _, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "file too large (max 5MB)", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "no file provided", nil)
		return
	}
	defer file.Close()

	// Sniff the real content type rather than trusting the client header.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "upload failed", nil)
		return
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		writeError(w, http.StatusBadRequest, "file type not allowed", nil)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, http.StatusBadRequest, "upload failed", nil)
		return
	}

	if err := os.MkdirAll(h.uploadsDir, 0o755); err != nil {
		log.WithError(err).Error("failed to create uploads dir")
		writeError(w, http.StatusInternalServerError, "upload failed", nil)
		return
	}

	name := fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
	dst, err := os.Create(filepath.Join(h.uploadsDir, name))
	if err != nil {
		log.WithError(err).Error("failed to create upload file")
		writeError(w, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		log.WithError(err).Error("failed to write upload file")
		writeError(w, http.StatusInternalServerError, "upload failed", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"url":     h.baseURL + "/uploads/" + name,
	})
}
