package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PampangaDental/clinic-scheduler/internal/httperr"
	"github.com/PampangaDental/clinic-scheduler/internal/middleware"
	ucappointment "github.com/PampangaDental/clinic-scheduler/internal/usecase/appointment"
)

// writeUsecaseError maps use-case failures onto the HTTP error envelope.
// Validation and business failures are user-visible; anything else is a
// server fault.
func writeUsecaseError(c *gin.Context, err error) {
	var verr *ucappointment.ValidationError
	if errors.As(err, &verr) {
		msg := verr.Form
		if msg == "" {
			msg = "Please correct the errors below."
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error_code": "validation_failed",
			"message":    msg,
			"fields":     verr.Fields,
		})
		return
	}

	if be, ok := httperr.AsBusiness(err); ok {
		if be.Code == "not_found" {
			httperr.NotFound(c, be.Code, be.Message)
			return
		}
		httperr.BadRequest(c, be.Code, be.Message)
		return
	}

	httperr.Internal(c, "internal_error", "Something went wrong. Please try again.")
}

func actorID(c *gin.Context) *uint {
	id, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return nil
	}
	uid, ok := id.(uint)
	if !ok {
		return nil
	}
	return &uid
}
