package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uniterm/uniterm-api/internal/models"
	"github.com/uniterm/uniterm-api/internal/service"
	appErrors "github.com/uniterm/uniterm-api/pkg/errors"
	"github.com/uniterm/uniterm-api/pkg/response"
)

// TermHandler exposes exam term endpoints.
type TermHandler struct {
	service *service.TermService
}

// NewTermHandler constructs a term handler.
func NewTermHandler(svc *service.TermService) *TermHandler {
	return &TermHandler{service: svc}
}

// List godoc
// @Summary List exam terms
// @Description List exam terms with filters, ordered by date and time
// @Tags ExamTerms
// @Produce json
// @Param status query string false "Filter by status (PROPOSED, APPROVED, REJECTED)"
// @Param field_of_study query string false "Filter by cohort field of study"
// @Param study_mode query string false "Filter by cohort study mode"
// @Param year query int false "Filter by cohort year"
// @Success 200 {object} response.Envelope
// @Router /exam-terms [get]
func (h *TermHandler) List(c *gin.Context) {
	var filter models.ExamTermFilter
	if status := c.Query("status"); status != "" {
		filter.Status = models.TermStatus(status)
	}
	filter.FieldOfStudy = c.Query("field_of_study")
	if mode := c.Query("study_mode"); mode != "" {
		filter.StudyMode = models.StudyMode(mode)
	}
	if year := c.Query("year"); year != "" {
		if val, err := strconv.Atoi(year); err == nil {
			filter.Year = val
		}
	}

	terms, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, nil)
}

// Get godoc
// @Summary Get exam term
// @Tags ExamTerms
// @Produce json
// @Param id path string true "Exam term ID"
// @Success 200 {object} response.Envelope
// @Router /exam-terms/{id} [get]
func (h *TermHandler) Get(c *gin.Context) {
	term, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// Propose godoc
// @Summary Propose exam term
// @Description Validate and persist a new exam term in the PROPOSED state
// @Tags ExamTerms
// @Accept json
// @Produce json
// @Param payload body service.ProposeTermRequest true "Proposal payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exam-terms [post]
func (h *TermHandler) Propose(c *gin.Context) {
	var req service.ProposeTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	term, err := h.service.Propose(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, term)
}

// Decide godoc
// @Summary Decide exam term
// @Description Approve or reject a proposed exam term
// @Tags ExamTerms
// @Accept json
// @Produce json
// @Param id path string true "Exam term ID"
// @Param payload body service.DecideTermRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exam-terms/{id}/decision [put]
func (h *TermHandler) Decide(c *gin.Context) {
	var req service.DecideTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	term, err := h.service.Decide(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// CheckRoom godoc
// @Summary Check room availability
// @Description Report whether the (room, date, time) slot is free
// @Tags Validation
// @Produce json
// @Param room_name query string true "Room name"
// @Param exam_date query string true "Date (YYYY-MM-DD)"
// @Param start_time query string true "Time (HH:MM)"
// @Param exclude_term_id query string false "Term to exclude from the check"
// @Success 200 {object} response.Envelope
// @Router /exam-terms/validation/room [get]
func (h *TermHandler) CheckRoom(c *gin.Context) {
	result, err := h.service.CheckRoomAvailability(c.Request.Context(),
		c.Query("exam_date"), c.Query("start_time"), c.Query("room_name"), c.Query("exclude_term_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CheckStudents godoc
// @Summary Check student availability
// @Description Report whether the cohort already has an exam on the date
// @Tags Validation
// @Produce json
// @Param exam_date query string true "Date (YYYY-MM-DD)"
// @Param field_of_study query string true "Field of study"
// @Param study_mode query string true "Study mode"
// @Param year query int true "Year of study"
// @Param exclude_term_id query string false "Term to exclude from the check"
// @Success 200 {object} response.Envelope
// @Router /exam-terms/validation/students [get]
func (h *TermHandler) CheckStudents(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
		return
	}
	cohort := models.Cohort{
		FieldOfStudy: c.Query("field_of_study"),
		StudyMode:    models.StudyMode(c.Query("study_mode")),
		Year:         year,
	}
	result, err := h.service.CheckStudentAvailability(c.Request.Context(),
		c.Query("exam_date"), cohort, c.Query("exclude_term_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CheckRoomCapacity godoc
// @Summary Check room capacity and availability
// @Description Compose room existence, capacity and slot freedom into one verdict
// @Tags Validation
// @Produce json
// @Param room_name query string true "Room name"
// @Param exam_date query string true "Date (YYYY-MM-DD)"
// @Param start_time query string true "Time (HH:MM)"
// @Param expected_count query int true "Expected number of students"
// @Success 200 {object} response.Envelope
// @Router /exam-terms/validation/room-capacity [get]
func (h *TermHandler) CheckRoomCapacity(c *gin.Context) {
	expected, err := strconv.Atoi(c.Query("expected_count"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "expected_count must be an integer"))
		return
	}
	result, err := h.service.CheckRoomCapacityAndAvailability(c.Request.Context(),
		c.Query("room_name"), c.Query("exam_date"), c.Query("start_time"), expected)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
