package handlers

import (
	"errors"
	"net/http"

	"imageshare/internal/models"
	"imageshare/internal/service"

	"github.com/gin-gonic/gin"
)

// loginPage reports whether a login error was carried in the query,
// mirroring the redirect-with-error flow of the admin UI.
func (h *Handler) loginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"error": c.Query("error"),
	})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "username and password are required",
			"username": username,
		})
		return
	}

	user, err := h.services.ValidateCredentials(c.Request.Context(), username, password)
	if err != nil {
		h.log.Errorw("login_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if user == nil {
		// Unknown username and wrong password answer identically.
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "incorrect username or password",
			"username": username,
		})
		return
	}

	token, err := h.services.CreateToken(models.Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		h.log.Errorw("token_issue_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// logout clears the cookie and always redirects, even when nobody was
// logged in.
func (h *Handler) logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, adminLoginPath)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.GetAllUsers(c.Request.Context())
	if err != nil {
		h.log.Errorw("list_users_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) createUser(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	role := c.PostForm("role")

	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "username and password are required",
			"username": username,
			"role":     role,
		})
		return
	}
	if !models.ValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "invalid role",
			"username": username,
			"role":     role,
		})
		return
	}

	user, err := h.services.CreateUser(c.Request.Context(), username, password, role)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "username": username})
			return
		}
		h.log.Errorw("create_user_failed", "username", username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *Handler) deleteUser(c *gin.Context) {
	userID := c.PostForm("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}

	// Deleting the acting user's own account is forbidden.
	if identity := identityFrom(c); identity != nil && identity.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete the currently logged-in user"})
		return
	}

	if err := h.services.DeleteUser(c.Request.Context(), userID); err != nil {
		h.log.Errorw("delete_user_failed", "userId", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
