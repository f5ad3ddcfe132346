package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rentacat/rentacat/internal/common"
	"github.com/rentacat/rentacat/internal/logging"
	"github.com/rentacat/rentacat/internal/server/config"
	"github.com/rentacat/rentacat/internal/server/storage"
)

const defaultAvatar = "/images/default-avatar.png"

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// ImageService validates uploaded profile pictures and hands them to the
// configured storage backend. Validation covers size, extension, and the
// actual file bytes (magic numbers), never the declared content type.
type ImageService struct {
	store    storage.Store
	maxBytes int64
	logger   logging.Logger
}

func NewImageService(store storage.Store, cfg *config.Config, logger logging.Logger) *ImageService {
	return &ImageService{
		store:    store,
		maxBytes: cfg.MaxUploadBytes,
		logger:   logger.With("module", "images"),
	}
}

// ProcessProfileImage validates fh and stores it under a unique name,
// returning the reference to persist on the user record. The stored file is
// removed again if anything fails after the write.
func (s *ImageService) ProcessProfileImage(ctx context.Context, fh *multipart.FileHeader, userID int64) (string, error) {
	if fh.Size > s.maxBytes {
		return "", fmt.Errorf("%w: file too large (max %d bytes)", common.ErrValidation, s.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: unsupported file format, use JPG, PNG or WebP", common.ErrValidation)
	}

	f, err := fh.Open()
	if err != nil {
		return "", common.ErrInternal
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", common.ErrInternal
	}
	head = head[:n]

	if detectImageType(head) == "" {
		return "", fmt.Errorf("%w: file content is not a supported image", common.ErrValidation)
	}

	name := fmt.Sprintf("profile-%d-%s%s", userID, uuid.New(), ext)

	ref, err := s.store.Save(ctx, name, io.MultiReader(bytes.NewReader(head), f))
	if err != nil {
		s.logger.Error(ctx, "storing profile image failed", "error", err)
		return "", common.ErrInternal
	}

	return ref, nil
}

// RemoveProfileImage deletes a previously stored picture. The default
// avatar and empty references are left alone; failures are logged, not
// propagated, since the profile update already committed.
func (s *ImageService) RemoveProfileImage(ctx context.Context, ref string) {
	if ref == "" || ref == defaultAvatar {
		return
	}
	if err := s.store.Remove(ctx, ref); err != nil {
		s.logger.Warn(ctx, "removing old profile image failed", "ref", ref, "error", err)
	}
}

// DiscardUpload removes an image stored during a request whose later steps
// failed, so no orphaned files are left behind.
func (s *ImageService) DiscardUpload(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.store.Remove(ctx, ref); err != nil {
		s.logger.Warn(ctx, "discarding uploaded image failed", "ref", ref, "error", err)
	}
}

// ResolveURL turns a stored reference into a fetchable URL.
func (s *ImageService) ResolveURL(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return defaultAvatar, nil
	}
	return s.store.ResolveURL(ctx, ref)
}

// detectImageType sniffs the magic numbers of the supported formats and
// returns the matching MIME type, or "" when the bytes match none of them.
func detectImageType(head []byte) string {
	switch {
	case len(head) >= 3 && bytes.Equal(head[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case len(head) >= 8 && bytes.Equal(head[:8], []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return "image/png"
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")):
		return "image/webp"
	default:
		return ""
	}
}
