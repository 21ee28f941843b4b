package handlers

import (
	"net/http"
	"strings"

	"imageshare/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	jwtCookieName  = "jwt"
	identityCtxKey = "identity"
	cookieMaxAge   = 7 * 24 * 60 * 60
	adminLoginPath = "/admin/login"
	adminRootPath  = "/admin"
)

// identityMiddleware extracts a token from the Authorization header or
// the jwt cookie and attaches an identity-or-none to the request. An
// invalid token clears the cookie; the request itself is never rejected
// here, downstream gates decide.
func (h *Handler) identityMiddleware(c *gin.Context) {
	token := ""
	if header := c.GetHeader("Authorization"); header != "" {
		token = strings.TrimPrefix(header, "Bearer ")
	} else if cookie, err := c.Cookie(jwtCookieName); err == nil {
		token = cookie
	}

	if token != "" {
		if identity := h.services.VerifyToken(token); identity != nil {
			c.Set(identityCtxKey, identity)
		} else {
			h.clearSessionCookie(c)
		}
	}
	c.Next()
}

// requireAuth redirects unauthenticated requests to the login page and
// short-circuits the handler chain.
func (h *Handler) requireAuth(c *gin.Context) {
	if identityFrom(c) == nil {
		c.Redirect(http.StatusFound, adminLoginPath)
		c.Abort()
		return
	}
	c.Next()
}

// requireAdmin redirects non-admin identities to the admin root.
// Runs after requireAuth, so an identity is always present.
func (h *Handler) requireAdmin(c *gin.Context) {
	identity := identityFrom(c)
	if identity == nil || !identity.IsAdmin() {
		c.Redirect(http.StatusFound, adminRootPath)
		c.Abort()
		return
	}
	c.Next()
}

// redirectIfAuthenticated keeps logged-in users off the login page.
func (h *Handler) redirectIfAuthenticated(c *gin.Context) {
	if identityFrom(c) != nil {
		c.Redirect(http.StatusFound, adminRootPath)
		c.Abort()
		return
	}
	c.Next()
}

func identityFrom(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityCtxKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(jwtCookieName, token, cookieMaxAge, "/", "", h.secureCookie, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(jwtCookieName, "", -1, "/", "", h.secureCookie, true)
}
