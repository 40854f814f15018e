package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"binduty-service/internal/config"
	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/internal/services"
)

// DeliveryLister reads the delivery archive.
type DeliveryLister interface {
	ListDeliveries(ctx context.Context, status string, limit, offset int) ([]models.Delivery, error)
}

type Handler struct {
	svc        *services.Service
	deliveries DeliveryLister
	logger     *logging.Logger
	config     config.Config
}

// NewHandler builds the HTTP handlers. deliveries may be nil when no archive is configured.
func NewHandler(svc *services.Service, deliveries DeliveryLister, logger *logging.Logger, cfg config.Config) *Handler {
	return &Handler{svc: svc, deliveries: deliveries, logger: logger, config: cfg}
}

const adminKey = "admin"

// currentAdmin returns the admin set by AuthMiddleware.
func currentAdmin(c *gin.Context) models.Admin {
	if v, ok := c.Get(adminKey); ok {
		if a, ok := v.(models.Admin); ok {
			return a
		}
	}
	return models.Admin{}
}

// respondError maps domain errors to status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Msg})
	case errors.Is(err, models.ErrEmptyRotation):
		c.JSON(http.StatusBadRequest, gin.H{"message": "No residents to remind."})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": publicMessage(err, models.ErrNotFound)})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": publicMessage(err, models.ErrConflict)})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": publicMessage(err, models.ErrForbidden)})
	case errors.Is(err, models.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": publicMessage(err, models.ErrUnauthorized)})
	default:
		h.logger.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An internal server error occurred"})
	}
}

// publicMessage strips the trailing sentinel from a wrapped error.
func publicMessage(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
