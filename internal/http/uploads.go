package http

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type uploadPhotoResponse struct {
	Filename string `json:"filename"`
	PhotoURL string `json:"photo_url"`
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if !isAdmin(claims) && claims.UserID != userID {
		writeError(w, http.StatusForbidden, "access to another user's account is not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "uploaded file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		writeError(w, http.StatusUnsupportedMediaType, "only image uploads are allowed")
		return
	}

	photosDir := filepath.Join(s.cfg.UploadsDir, "photos")
	if err := os.MkdirAll(photosDir, 0o755); err != nil {
		log.Printf("upload: create dir: %v", err)
		writeError(w, http.StatusInternalServerError, "could not store file")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := fmt.Sprintf("user_%d_%s%s", userID, uuid.NewString(), ext)
	path := filepath.Join(photosDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		log.Printf("upload: create file: %v", err)
		writeError(w, http.StatusInternalServerError, "could not store file")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(path)
		log.Printf("upload: write file: %v", err)
		writeError(w, http.StatusInternalServerError, "could not store file")
		return
	}

	photoURL := "/uploads/photos/" + filename
	if err := s.store.SetUserPhoto(r.Context(), userID, photoURL); err != nil {
		_ = os.Remove(path)
		writeStoreError(w, err, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, uploadPhotoResponse{Filename: filename, PhotoURL: photoURL})
}
