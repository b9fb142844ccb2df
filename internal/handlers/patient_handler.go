package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/PampangaDental/clinic-scheduler/internal/config"
	"github.com/PampangaDental/clinic-scheduler/internal/httpresp"
	"github.com/PampangaDental/clinic-scheduler/internal/timezone"
	ucdashboard "github.com/PampangaDental/clinic-scheduler/internal/usecase/dashboard"
)

type PatientHandler struct {
	rollup *ucdashboard.PatientRollup
	cfg    *config.Config
}

func NewPatientHandler(rollup *ucdashboard.PatientRollup, cfg *config.Config) *PatientHandler {
	return &PatientHandler{rollup: rollup, cfg: cfg}
}

// Rollup serves the patient-management screen: the searchable identity
// queue plus the detail panels for the selected patient.
func (h *PatientHandler) Rollup(c *gin.Context) {
	res, err := h.rollup.Execute(
		c.Request.Context(),
		c.Query("q"),
		c.Query("patient"),
		timezone.TodayIn(h.cfg.ClinicTimezone),
	)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	httpresp.OK(c, res)
}
