package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"binduty-service/internal/config"
	"binduty-service/internal/logging"
	"binduty-service/internal/models"
)

func NewRouter(h *Handler, logger *logging.Logger, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group(cfg.API.BasePath)
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.POST("/auth/login", h.Login)
		api.POST("/issues", RateLimitMiddleware(cfg.RateLimit.PublicPerMinute, cfg.RateLimit.PublicBurst), h.ReportIssue)
		api.GET("/issues/public", h.ListIssues)
		api.POST("/cron/trigger-reminder", CronSecretMiddleware(cfg.Cron.Secret), h.CronTriggerReminder)
	}

	authed := api.Group("", AuthMiddleware(h.svc))
	{
		authed.GET("/auth/me", h.Me)
		authed.GET("/dashboard", h.Dashboard)
		authed.GET("/residents", h.ListResidents)
		authed.GET("/ws", h.WebSocket)
	}

	editors := authed.Group("", RequireRoles(models.RoleSuperuser, models.RoleEditor))
	{
		editors.POST("/residents", h.AddResident)
		editors.PUT("/residents/order", h.ReorderResidents)
		editors.PUT("/residents/:id", h.UpdateResident)
		editors.DELETE("/residents/:id", h.DeleteResident)

		editors.POST("/trigger-reminder", h.TriggerReminder)
		editors.POST("/announcements", h.SendAnnouncement)

		editors.GET("/issues", h.ListIssues)
		editors.PUT("/issues/:id", h.UpdateIssueStatus)
		editors.DELETE("/issues", h.DeleteIssues)

		editors.GET("/logs", h.ListLogs)
		editors.DELETE("/logs", h.DeleteLogs)
		editors.GET("/communication-history", h.ListHistory)
	}

	superusers := authed.Group("", RequireRoles(models.RoleSuperuser))
	{
		superusers.GET("/settings", h.GetSettings)
		superusers.PUT("/settings", h.UpdateSettings)

		superusers.GET("/admins", h.ListAdmins)
		superusers.POST("/admins", h.CreateAdmin)
		superusers.PUT("/admins/:id", h.UpdateAdmin)
		superusers.DELETE("/admins/:id", h.DeleteAdmin)

		superusers.GET("/deliveries", h.ListDeliveries)
	}
	return r
}
