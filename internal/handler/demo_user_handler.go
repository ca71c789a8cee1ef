package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniterm/uniterm-api/internal/service"
	"github.com/uniterm/uniterm-api/pkg/response"
)

// DemoUserHandler exposes the demo identity endpoint.
type DemoUserHandler struct {
	service *service.DemoUserService
}

// NewDemoUserHandler constructs a demo user handler.
func NewDemoUserHandler(svc *service.DemoUserService) *DemoUserHandler {
	return &DemoUserHandler{service: svc}
}

// List godoc
// @Summary List demo users
// @Description List the canned identities available for role selection
// @Tags DemoUsers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /demo-users [get]
func (h *DemoUserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}
