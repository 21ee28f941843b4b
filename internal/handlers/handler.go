package handlers

import (
	"net/http"

	"imageshare/internal/config"
	"imageshare/internal/logger"
	"imageshare/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services     *service.Service
	log          *logger.Logger
	secureCookie bool
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cfg *config.Config) *Handler {
	secure := false
	if cfg != nil {
		secure = cfg.IsProd()
	}
	return &Handler{services: services, log: log, secureCookie: secure}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Identity resolution runs for every request before any handler.
	router.Use(h.identityMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAdminRoutes(router)
	h.registerPublicRoutes(router)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	{
		login := admin.Group("/login", h.redirectIfAuthenticated)
		{
			login.GET("", h.loginPage)
			login.POST("", h.login)
		}
		admin.GET("/logout", h.logout)

		authed := admin.Group("", h.requireAuth)
		{
			authed.GET("", h.listShares)
			authed.GET("/add", h.newShare)
			authed.POST("/add", h.createShare)
			authed.GET("/edit/:id", h.editShare)
			authed.POST("/edit/:id", h.updateShare)
			authed.POST("/edit/:id/delete", h.deleteShare)

			users := authed.Group("/users", h.requireAdmin)
			{
				users.GET("", h.listUsers)
				users.POST("", h.createUser)
				users.POST("/delete", h.deleteUser)
			}
		}
	}
}

func (h *Handler) registerPublicRoutes(r *gin.Engine) {
	r.GET("/share/:id", h.viewShare)
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/upload-url", h.uploadURL)
		api.GET("/downloadzip", h.downloadZip)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
