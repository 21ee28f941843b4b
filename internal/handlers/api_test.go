package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"imageshare/internal/models"
	"imageshare/internal/service"
)

func postJSON(r http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestUploadURL_RequiresAuth(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{}, Uploads: &mockUploads{valid: true}}
	r := newTestRouter(s)

	w := postJSON(r, "/api/upload-url", `{"fileName":"a.png","contentType":"image/png"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUploadURL_Validation(t *testing.T) {
	identity := &models.Identity{ID: "u1", Username: "alice", Role: models.RoleUser}

	t.Run("missing fields", func(t *testing.T) {
		s := &service.Service{Authorization: &mockAuth{identity: identity}, Uploads: &mockUploads{valid: true}}
		r := newTestRouter(s)

		w := postJSON(r, "/api/upload-url", `{"fileName":"a.png"}`, map[string]string{"Authorization": "Bearer tok"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("disallowed content type", func(t *testing.T) {
		s := &service.Service{Authorization: &mockAuth{identity: identity}, Uploads: &mockUploads{valid: false}}
		r := newTestRouter(s)

		w := postJSON(r, "/api/upload-url", `{"fileName":"a.exe","contentType":"application/octet-stream"}`,
			map[string]string{"Authorization": "Bearer tok"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestUploadURL_Success(t *testing.T) {
	identity := &models.Identity{ID: "u1", Username: "alice", Role: models.RoleUser}
	uploads := &mockUploads{
		valid: true,
		presign: &service.PresignResult{
			UploadURL: "https://bucket/presigned",
			Key:       "images/123-abc.png",
			PublicURL: "https://cdn/images/123-abc.png",
			Provider:  "cloudflare-r2",
		},
	}
	s := &service.Service{Authorization: &mockAuth{identity: identity}, Uploads: uploads}
	r := newTestRouter(s)

	w := postJSON(r, "/api/upload-url", `{"fileName":"a.png","contentType":"image/png"}`,
		map[string]string{"Authorization": "Bearer tok"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body=%s)", w.Code, w.Body.String())
	}

	var out struct {
		Success   bool   `json:"success"`
		UploadURL string `json:"uploadUrl"`
		Key       string `json:"key"`
		PublicURL string `json:"publicUrl"`
		Provider  string `json:"provider"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if !out.Success || out.UploadURL != "https://bucket/presigned" || out.Key != "images/123-abc.png" ||
		out.PublicURL != "https://cdn/images/123-abc.png" || out.Provider != "cloudflare-r2" {
		t.Fatalf("unexpected payload %+v", out)
	}
}

func TestDownloadZip_ParamAndNotFound(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{}, Shares: &mockShares{}, Exports: &mockExports{}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/downloadzip", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without id, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/downloadzip?id=nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown share, got %d", w.Code)
	}
}

func TestDownloadZip_Success(t *testing.T) {
	shares := &mockShares{share: &models.Share{ID: "s1", Title: "my holiday"}}
	exports := &mockExports{archive: []byte("PK archive bytes")}
	s := &service.Service{Authorization: &mockAuth{}, Shares: shares, Exports: exports}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/downloadzip?id=s1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body=%s)", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("content type: got %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "attachment") || !strings.Contains(cd, ".zip") {
		t.Fatalf("content disposition: got %q", cd)
	}
	if w.Body.String() != "PK archive bytes" {
		t.Fatal("expected the archive bytes to be returned verbatim")
	}
}

func TestZipDisposition(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"", `attachment; filename="images.zip"; filename*=UTF-8''images.zip`},
		{"holiday", `attachment; filename="holiday.zip"; filename*=UTF-8''holiday.zip`},
	}
	for _, tc := range cases {
		if got := zipDisposition(tc.title); got != tc.want {
			t.Fatalf("zipDisposition(%q): got %q, want %q", tc.title, got, tc.want)
		}
	}

	// non-ASCII titles must be percent-encoded in the extended form
	got := zipDisposition("假期照片")
	if !strings.Contains(got, "filename*=UTF-8''%E5%81%87%E6%9C%9F%E7%85%A7%E7%89%87.zip") {
		t.Fatalf("expected percent-encoded extended filename, got %q", got)
	}
}
