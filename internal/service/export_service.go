package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"imageshare/internal/logger"
	"imageshare/internal/models"

	"github.com/google/uuid"
)

const fetchTimeout = 30 * time.Second

// ExportService fetches a share's images over HTTP and assembles them
// into a single in-memory zip archive.
type ExportService struct {
	client *http.Client
	log    *logger.Logger
}

func NewExportService(log *logger.Logger) *ExportService {
	return &ExportService{
		client: &http.Client{Timeout: fetchTimeout},
		log:    log,
	}
}

// BuildArchive processes images sequentially in share order. A failed
// fetch skips that image; only archive assembly itself is fatal.
func (s *ExportService) BuildArchive(ctx context.Context, share models.Share) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	used := make(map[string]struct{})

	for _, img := range share.Images {
		data, name, err := s.fetchImage(ctx, img.URL)
		if err != nil {
			if s.log != nil {
				s.log.Warnw("image_fetch_failed", "url", img.URL, "err", err)
			}
			continue
		}

		name = dedupeName(used, name)
		used[name] = struct{}{}

		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %q: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write zip entry %q: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}

	return data, archiveFileName(imageURL, resp.Header), nil
}

// archiveFileName resolves an entry name from the URL path, then the
// Content-Disposition header, then a content-type-derived extension.
func archiveFileName(imageURL string, header http.Header) string {
	if u, err := url.Parse(imageURL); err == nil {
		base := path.Base(u.Path)
		if base != "." && base != "/" && strings.Contains(base, ".") {
			return base
		}
	}

	if cd := header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}

	return "image-" + uuid.NewString() + extensionFor(header.Get("Content-Type"))
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}

// dedupeName appends an incrementing numeric suffix before the
// extension until the name is unused within the archive.
func dedupeName(used map[string]struct{}, name string) string {
	if _, taken := used[name]; !taken {
		return name
	}
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}
