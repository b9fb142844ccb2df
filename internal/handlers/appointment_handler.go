package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PampangaDental/clinic-scheduler/internal/config"
	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	"github.com/PampangaDental/clinic-scheduler/internal/httperr"
	"github.com/PampangaDental/clinic-scheduler/internal/httpresp"
	"github.com/PampangaDental/clinic-scheduler/internal/timezone"
	ucappointment "github.com/PampangaDental/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// STAFF APPOINTMENT SCREEN
// ======================================================

type AppointmentHandler struct {
	create     *ucappointment.CreateAppointment
	update     *ucappointment.UpdateAppointment
	transition *ucappointment.TransitionAppointment
	list       *ucappointment.ListAppointments
	cfg        *config.Config
}

func NewAppointmentHandler(
	create *ucappointment.CreateAppointment,
	update *ucappointment.UpdateAppointment,
	transition *ucappointment.TransitionAppointment,
	list *ucappointment.ListAppointments,
	cfg *config.Config,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     create,
		update:     update,
		transition: transition,
		list:       list,
		cfg:        cfg,
	}
}

// List serves the three panes of the appointments screen.
func (h *AppointmentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("history_page", "1"))

	res, err := h.list.Execute(c.Request.Context(), ucappointment.ListInput{
		Query:         c.Query("q"),
		HistoryStatus: c.Query("history_status"),
		HistoryFrom:   c.Query("history_from"),
		HistoryTo:     c.Query("history_to"),
		HistoryPage:   page,
		Today:         timezone.TodayIn(h.cfg.ClinicTimezone),
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	httpresp.OK(c, res)
}

// Create is the staff manual booking: a valid slot books straight into
// confirmed status.
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req ucappointment.BookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), req, domain.StatusConfirmed, actorID(c))
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"appointment": ap})
}

// Update edits an existing appointment's details and slot.
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, "not_found", "Appointment not found.")
		return
	}

	var req ucappointment.BookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), uint(id), req, actorID(c))
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"appointment": ap})
}

type ActionRequest struct {
	AppointmentID uint   `json:"appointment_id" binding:"required"`
	Action        string `json:"action" binding:"required"`
}

// Action applies approve, cancel or complete to one appointment. Unknown
// actions, missing ids and not-found ids are user-visible errors, never a
// server fault.
func (h *AppointmentHandler) Action(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid action.")
		return
	}

	ap, err := h.transition.Execute(c.Request.Context(), req.AppointmentID, req.Action, actorID(c))
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"appointment": ap})
}
