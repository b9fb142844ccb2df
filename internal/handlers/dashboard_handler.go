package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/PampangaDental/clinic-scheduler/internal/config"
	"github.com/PampangaDental/clinic-scheduler/internal/httpresp"
	"github.com/PampangaDental/clinic-scheduler/internal/timezone"
	ucdashboard "github.com/PampangaDental/clinic-scheduler/internal/usecase/dashboard"
	"github.com/PampangaDental/clinic-scheduler/internal/weather"
)

// ======================================================
// DASHBOARD HOME + CHART
// ======================================================

type DashboardHandler struct {
	home    *ucdashboard.HomeView
	chart   *ucdashboard.BuildChart
	weather *weather.Client
	cfg     *config.Config
}

func NewDashboardHandler(
	home *ucdashboard.HomeView,
	chart *ucdashboard.BuildChart,
	weather *weather.Client,
	cfg *config.Config,
) *DashboardHandler {
	return &DashboardHandler{
		home:    home,
		chart:   chart,
		weather: weather,
		cfg:     cfg,
	}
}

// fallbackWeather keeps the widget populated when the provider is down or
// no api key is configured.
var fallbackWeather = weather.Report{TempC: 21, City: "Pampanga", Country: "Philippines"}

// Home renders the KPI cards, the activity chart and the side panels in a
// single response.
func (h *DashboardHandler) Home(c *gin.Context) {
	now := timezone.NowIn(h.cfg.ClinicTimezone)
	today := timezone.TodayIn(h.cfg.ClinicTimezone)

	res, err := h.home.Execute(c.Request.Context(), today, now)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	ch, err := h.chart.Execute(c.Request.Context(), c.DefaultQuery("ap_view", "day"), c.Query("ap_start"), today)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	report := fallbackWeather
	if h.weather != nil {
		if r := h.weather.Current(c.Request.Context(), c.ClientIP()); r != nil {
			report = *r
		}
	}

	httpresp.OK(c, gin.H{
		"kpis":            res,
		"chart":           ch,
		"weather":         report,
		"clinic_timezone": h.cfg.ClinicTimezone,
	})
}

// Chart serves the ajax refresh when the staff flips the view mode or pages
// through anchors.
func (h *DashboardHandler) Chart(c *gin.Context) {
	today := timezone.TodayIn(h.cfg.ClinicTimezone)

	ch, err := h.chart.Execute(c.Request.Context(), c.DefaultQuery("view", "day"), c.Query("anchor"), today)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	httpresp.OK(c, ch)
}
