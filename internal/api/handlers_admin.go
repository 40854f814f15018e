package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"binduty-service/internal/db"
	"binduty-service/internal/models"
)

func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.svc.Settings(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var patch models.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid settings payload")
		return
	}
	s, err := h.svc.UpdateSettings(c.Request.Context(), currentAdmin(c).Email, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) ListLogs(c *gin.Context) {
	logs, err := h.svc.Logs(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if logs == nil {
		logs = []models.AuditEntry{}
	}
	c.JSON(http.StatusOK, logs)
}

// deleteLogsRequest accepts entry ids and, for older clients, rendered entry text.
type deleteLogsRequest struct {
	IDs  []string `json:"ids"`
	Logs []string `json:"logs"`
}

func (h *Handler) DeleteLogs(c *gin.Context) {
	var req deleteLogsRequest
	if err := c.ShouldBindJSON(&req); err != nil || (len(req.IDs) == 0 && len(req.Logs) == 0) {
		badRequest(c, "No logs provided to delete")
		return
	}
	n, err := h.svc.DeleteLogs(c.Request.Context(), currentAdmin(c).Email, req.IDs, req.Logs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logs deleted successfully", "deleted": n})
}

func (h *Handler) ListHistory(c *gin.Context) {
	entries, err := h.svc.History(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.svc.ListAdmins(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if admins == nil {
		admins = []models.Admin{}
	}
	c.JSON(http.StatusOK, admins)
}

func (h *Handler) CreateAdmin(c *gin.Context) {
	var in models.AdminCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Email, password, and role are required")
		return
	}
	a, err := h.svc.CreateAdmin(c.Request.Context(), currentAdmin(c).Email, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) UpdateAdmin(c *gin.Context) {
	var in models.AdminUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	a, err := h.svc.UpdateAdmin(c.Request.Context(), currentAdmin(c).Email, c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAdmin(c *gin.Context) {
	if err := h.svc.DeleteAdmin(c.Request.Context(), currentAdmin(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}

// ListDeliveries pages through the delivery archive, optionally filtered by status.
func (h *Handler) ListDeliveries(c *gin.Context) {
	if h.deliveries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Delivery archive is not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, offset = db.Page(limit, offset)
	out, err := h.deliveries.ListDeliveries(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if out == nil {
		out = []models.Delivery{}
	}
	c.JSON(http.StatusOK, gin.H{"deliveries": out, "limit": limit, "offset": offset})
}
