package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	"github.com/PampangaDental/clinic-scheduler/internal/httperr"
	"github.com/PampangaDental/clinic-scheduler/internal/notify"
	ucappointment "github.com/PampangaDental/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// PUBLIC BOOKING + CONTACT
// ======================================================

type BookingHandler struct {
	create *ucappointment.CreateAppointment
	notify notify.Queue
}

func NewBookingHandler(
	create *ucappointment.CreateAppointment,
	notifyQueue notify.Queue,
) *BookingHandler {
	return &BookingHandler{
		create: create,
		notify: notifyQueue,
	}
}

// CreateAppointment books a public appointment request in pending status.
func (h *BookingHandler) CreateAppointment(c *gin.Context) {
	var req ucappointment.BookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), req, domain.StatusPending, nil)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"appointment": ap})
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Contact relays a contact-form message to the clinic inbox. Delivery is
// fire-and-forget; the caller always gets an acknowledgement.
func (h *BookingHandler) Contact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "All fields are required.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\n\n", strings.TrimSpace(req.Name), req.Email)
	b.WriteString(req.Message)

	h.notify.Dispatch(notify.Message{
		Subject: req.Subject,
		Body:    b.String(),
		ReplyTo: req.Email,
	})

	c.JSON(http.StatusOK, gin.H{"name": req.Name, "status": "sent"})
}
