package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"imageshare/internal/models"
	"imageshare/internal/service"
)

func postForm(r http.Handler, path string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_MissingFields(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{}}
	r := newTestRouter(s)

	w := postForm(r, "/admin/login", url.Values{"username": {"alice"}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", w.Code)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	// nil user, nil error: no-match, indistinguishable cause
	s := &service.Service{Authorization: &mockAuth{validatedUser: nil}}
	r := newTestRouter(s)

	w := postForm(r, "/admin/login", url.Values{"username": {"alice"}, "password": {"wrong"}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad credentials, got %d", w.Code)
	}

	var out struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if !strings.Contains(out.Error, "incorrect username or password") {
		t.Fatalf("unexpected error message %q", out.Error)
	}
}

func TestLogin_SuccessSetsCookie(t *testing.T) {
	auth := &mockAuth{
		validatedUser: &models.User{ID: "u1", Username: "alice", Role: models.RoleUser},
		token:         "tok123",
	}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	w := postForm(r, "/admin/login", url.Values{"username": {"alice"}, "password": {"pw"}}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body=%s)", w.Code, w.Body.String())
	}

	var jwtCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "jwt" {
			jwtCookie = c
		}
	}
	if jwtCookie == nil {
		t.Fatal("expected jwt cookie to be set")
	}
	if jwtCookie.Value != "tok123" {
		t.Fatalf("cookie value: got %q, want %q", jwtCookie.Value, "tok123")
	}
	if !jwtCookie.HttpOnly {
		t.Fatal("expected httpOnly cookie")
	}
	if jwtCookie.MaxAge != 7*24*60*60 {
		t.Fatalf("cookie max age: got %d", jwtCookie.MaxAge)
	}
}

func TestLogout_ClearsCookieAndRedirects(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/logout", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/login" {
		t.Fatalf("location: got %q", loc)
	}

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "jwt" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected jwt cookie to be cleared")
	}
}

func adminHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer admintok"}
}

func TestCreateUser_Validation(t *testing.T) {
	cases := []struct {
		name string
		form url.Values
	}{
		{"missing password", url.Values{"username": {"bob"}, "role": {"user"}}},
		{"missing username", url.Values{"password": {"pw"}, "role": {"user"}}},
		{"bad role", url.Values{"username": {"bob"}, "password": {"pw"}, "role": {"root"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{identity: &models.Identity{ID: "a1", Username: "root", Role: models.RoleAdmin}}
			s := &service.Service{Authorization: auth}
			r := newTestRouter(s)

			w := postForm(r, "/admin/users", tc.form, adminHeaders())
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (body=%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateUser_Conflict(t *testing.T) {
	auth := &mockAuth{
		identity:  &models.Identity{ID: "a1", Username: "root", Role: models.RoleAdmin},
		createErr: service.ErrUsernameTaken,
	}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	w := postForm(r, "/admin/users", url.Values{
		"username": {"taken"}, "password": {"pw"}, "role": {"user"},
	}, adminHeaders())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate username, got %d", w.Code)
	}
}

func TestDeleteUser_SelfDeletionForbidden(t *testing.T) {
	auth := &mockAuth{identity: &models.Identity{ID: "a1", Username: "root", Role: models.RoleAdmin}}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	w := postForm(r, "/admin/users/delete", url.Values{"userId": {"a1"}}, adminHeaders())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self-deletion, got %d", w.Code)
	}
	if auth.lastDeleteID != "" {
		t.Fatalf("delete must not reach the service, got id %q", auth.lastDeleteID)
	}
}

func TestDeleteUser_Success(t *testing.T) {
	auth := &mockAuth{identity: &models.Identity{ID: "a1", Username: "root", Role: models.RoleAdmin}}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	w := postForm(r, "/admin/users/delete", url.Values{"userId": {"u2"}}, adminHeaders())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body=%s)", w.Code, w.Body.String())
	}
	if auth.lastDeleteID != "u2" {
		t.Fatalf("expected delete of u2, got %q", auth.lastDeleteID)
	}
}
