package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"binduty-service/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		badRequest(c, "Email and password are required")
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentAdmin(c).Safe())
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) ListResidents(c *gin.Context) {
	residents, err := h.svc.ListResidents(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if residents == nil {
		residents = []models.Resident{}
	}
	c.JSON(http.StatusOK, residents)
}

func (h *Handler) AddResident(c *gin.Context) {
	var in models.ResidentCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Name and flat number are required")
		return
	}
	r, err := h.svc.AddResident(c.Request.Context(), currentAdmin(c).Email, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) UpdateResident(c *gin.Context) {
	var u models.ResidentUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if _, err := h.svc.UpdateResident(c.Request.Context(), currentAdmin(c).Email, c.Param("id"), u); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resident updated successfully"})
}

func (h *Handler) DeleteResident(c *gin.Context) {
	if err := h.svc.DeleteResident(c.Request.Context(), currentAdmin(c).Email, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resident deleted successfully"})
}

type reorderRequest struct {
	Residents []models.Resident `json:"residents"`
}

func (h *Handler) ReorderResidents(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Residents == nil {
		badRequest(c, "No residents data provided")
		return
	}
	if err := h.svc.ReorderResidents(c.Request.Context(), currentAdmin(c).Email, req.Residents); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resident order updated successfully"})
}

type triggerRequest struct {
	Message string `json:"message"`
}

// TriggerReminder runs a manual reminder. The body is optional.
func (h *Handler) TriggerReminder(c *gin.Context) {
	var req triggerRequest
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBindJSON(&req)
	}
	h.runReminder(c, models.Trigger{
		Origin:   models.OriginManual,
		Actor:    currentAdmin(c).Email,
		Template: req.Message,
	})
}

func (h *Handler) CronTriggerReminder(c *gin.Context) {
	h.runReminder(c, models.Trigger{Origin: models.OriginAutomatic})
}

func (h *Handler) runReminder(c *gin.Context, t models.Trigger) {
	res, err := h.svc.TriggerReminder(c.Request.Context(), t)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type announcementRequest struct {
	Subject     string   `json:"subject"`
	Message     string   `json:"message"`
	ResidentIDs []string `json:"resident_ids"`
}

func (h *Handler) SendAnnouncement(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Subject, message, and resident_ids are required.")
		return
	}
	res, err := h.svc.SendAnnouncement(c.Request.Context(), currentAdmin(c).Email, req.Subject, req.Message, req.ResidentIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
