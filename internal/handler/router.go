package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aadhaarqms/internal/middleware"
)

// Router wires the full HTTP surface.
func (h *Handler) Router(rl *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	authed := api.Group("/auth", rl.Middleware())
	{
		authed.POST("/register", h.Register)
		authed.POST("/login", h.Login)
		authed.POST("/admin/login", h.AdminLogin)
		authed.POST("/admin/create-default", h.CreateDefaultAdmin)
	}

	api.GET("/queue/today", h.TodayQueue)

	auth := middleware.Auth(h.cfg.Auth.JWTSecret)

	citizen := api.Group("", auth, middleware.RequireUser())
	{
		citizen.POST("/appointment", h.BookAppointment)
		citizen.GET("/my-appointments", h.MyAppointments)
		citizen.GET("/appointment/availability", h.Availability)
		citizen.DELETE("/appointment/:id", h.CancelAppointment)
	}

	// readable by the owner or an admin; the engine decides
	api.GET("/appointment/:id", auth, h.GetAppointment)

	admin := api.Group("/admin", auth, middleware.RequireAdmin())
	{
		admin.GET("/appointments", h.ListAppointments)
		admin.PUT("/appointment/:id/status", h.UpdateStatus)
		admin.GET("/analytics", h.Analytics)
	}

	return r
}
