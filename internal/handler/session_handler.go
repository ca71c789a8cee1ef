package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniterm/uniterm-api/internal/service"
	appErrors "github.com/uniterm/uniterm-api/pkg/errors"
	"github.com/uniterm/uniterm-api/pkg/response"
)

// SessionHandler exposes session calendar endpoints.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// Current godoc
// @Summary Current session windows
// @Description Resolve the main and retake windows relevant for scheduling
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session-periods/current [get]
func (h *SessionHandler) Current(c *gin.Context) {
	windows, err := h.service.CurrentWindows(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, windows, nil)
}

// CheckDate godoc
// @Summary Check session date
// @Description Report whether a date falls inside a current session window
// @Tags Validation
// @Produce json
// @Param exam_date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /exam-terms/validation/session-date [get]
func (h *SessionHandler) CheckDate(c *gin.Context) {
	valid, message, err := h.service.CheckSessionDate(c.Request.Context(), c.Query("exam_date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, service.AvailabilityResult{Valid: valid, Message: message}, nil)
}

// List godoc
// @Summary List session periods
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session-periods [get]
func (h *SessionHandler) List(c *gin.Context) {
	periods, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// Create godoc
// @Summary Create session period
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body service.CreateSessionPeriodRequest true "Session period payload"
// @Success 201 {object} response.Envelope
// @Router /session-periods [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req service.CreateSessionPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	period, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}
