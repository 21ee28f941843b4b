package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"path"
	"strings"
	"time"

	"imageshare/internal/logger"
	"imageshare/internal/storage"

	"github.com/disintegration/imaging"
)

const (
	keyPrefix       = "images/"
	previewSuffix   = "_preview.jpg"
	previewMaxSize  = 1200
	previewQuality  = 80
	presignValidity = time.Hour
	randomSuffixLen = 6
)

// UploadResult mirrors the storage outcome handed back to clients.
type UploadResult struct {
	Success    bool   `json:"success"`
	URL        string `json:"url,omitempty"`
	Key        string `json:"key,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
	Error      string `json:"error,omitempty"`
}

// PresignResult lets a client upload directly to the backend.
type PresignResult struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
	Provider  string `json:"provider"`
}

type UploadService struct {
	store storage.Storage
	log   *logger.Logger
}

func NewUploadService(store storage.Storage, log *logger.Logger) *UploadService {
	return &UploadService{store: store, log: log}
}

var validImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// IsValidImageType accepts exactly the supported image content types.
func (s *UploadService) IsValidImageType(contentType string) bool {
	_, ok := validImageTypes[contentType]
	return ok
}

// GenerateUniqueFileName derives a storage key under the images/ prefix
// from a timestamp and a random suffix, keeping the original extension.
// No existence check is performed; collisions are treated as negligible.
func (s *UploadService) GenerateUniqueFileName(originalName string) string {
	ext := strings.TrimPrefix(path.Ext(originalName), ".")
	return fmt.Sprintf("%s%d-%s.%s", keyPrefix, time.Now().UnixMilli(), randomSuffix(randomSuffixLen), ext)
}

// UploadFile writes the original bytes under key and, for image content,
// best-effort generates a bounded-dimension re-encoded preview alongside
// it. Preview failure never fails the upload.
func (s *UploadService) UploadFile(ctx context.Context, data []byte, key, contentType string) UploadResult {
	if err := s.store.Put(ctx, key, contentType, data); err != nil {
		if s.log != nil {
			s.log.Errorw("upload_failed", "key", key, "err", err)
		}
		return UploadResult{Success: false, Error: err.Error()}
	}

	res := UploadResult{
		Success: true,
		URL:     s.store.PublicURL(key),
		Key:     key,
	}

	if strings.HasPrefix(contentType, "image/") {
		previewKey := previewKeyFor(key)
		if previewURL, err := s.uploadPreview(ctx, data, previewKey); err != nil {
			if s.log != nil {
				s.log.Warnw("preview_generation_failed", "key", key, "err", err)
			}
		} else {
			res.PreviewURL = previewURL
		}
	}
	return res
}

func (s *UploadService) uploadPreview(ctx context.Context, data []byte, previewKey string) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	// Fit scales down to the bounding box preserving aspect ratio and
	// never upscales.
	preview := imaging.Fit(img, previewMaxSize, previewMaxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, preview, imaging.JPEG, imaging.JPEGQuality(previewQuality)); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}

	if err := s.store.Put(ctx, previewKey, "image/jpeg", buf.Bytes()); err != nil {
		return "", err
	}
	return s.store.PublicURL(previewKey), nil
}

// PresignUpload returns a time-boxed direct-upload URL plus the public
// URL the object will have once uploaded.
func (s *UploadService) PresignUpload(ctx context.Context, fileName, contentType string) (*PresignResult, error) {
	key := s.GenerateUniqueFileName(fileName)
	uploadURL, err := s.store.PresignPut(ctx, key, contentType, presignValidity)
	if err != nil {
		return nil, err
	}
	return &PresignResult{
		UploadURL: uploadURL,
		Key:       key,
		PublicURL: s.store.PublicURL(key),
		Provider:  s.store.Provider(),
	}, nil
}

// DeleteFile is best-effort; failures are logged and reported as false,
// never propagated.
func (s *UploadService) DeleteFile(ctx context.Context, key string) bool {
	if err := s.store.Delete(ctx, key); err != nil {
		if s.log != nil {
			s.log.Errorw("delete_failed", "key", key, "err", err)
		}
		return false
	}
	return true
}

// previewKeyFor replaces the extension with the preview suffix.
func previewKeyFor(key string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + previewSuffix
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = suffixAlphabet[int(b[i])%len(suffixAlphabet)]
	}
	return string(b)
}
