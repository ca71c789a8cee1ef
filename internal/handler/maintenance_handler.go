package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniterm/uniterm-api/internal/service"
	"github.com/uniterm/uniterm-api/pkg/response"
)

// MaintenanceHandler exposes administrative maintenance endpoints.
type MaintenanceHandler struct {
	service *service.MaintenanceService
}

// NewMaintenanceHandler constructs a maintenance handler.
func NewMaintenanceHandler(svc *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: svc}
}

// RemoveDuplicates godoc
// @Summary Remove duplicate rows
// @Description Collapse duplicate rows across all entity tables in one transaction
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/duplicates [delete]
func (h *MaintenanceHandler) RemoveDuplicates(c *gin.Context) {
	result, err := h.service.RemoveDuplicates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil, map[string]interface{}{
		"message": fmt.Sprintf("removed %d duplicate rows", result.Total()),
	})
}
