package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"binduty-service/internal/models"
)

func (h *Handler) ListIssues(c *gin.Context) {
	issues, err := h.svc.ListIssues(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	c.JSON(http.StatusOK, issues)
}

// ReportIssue is the public submission endpoint.
func (h *Handler) ReportIssue(c *gin.Context) {
	var in models.IssueCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Name, flat number, and description are required.")
		return
	}
	if _, err := h.svc.ReportIssue(c.Request.Context(), in); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Issue reported successfully."})
}

type issueStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateIssueStatus(c *gin.Context) {
	var req issueStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		badRequest(c, "Status is required")
		return
	}
	if _, err := h.svc.UpdateIssueStatus(c.Request.Context(), currentAdmin(c).Email, c.Param("id"), req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Issue status updated successfully"})
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) DeleteIssues(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		badRequest(c, "No issue IDs provided")
		return
	}
	if _, err := h.svc.DeleteIssues(c.Request.Context(), currentAdmin(c).Email, req.IDs); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Issues deleted successfully"})
}
