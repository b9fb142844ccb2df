package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PampangaDental/clinic-scheduler/internal/audit"
	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	"github.com/PampangaDental/clinic-scheduler/internal/models"
	"github.com/PampangaDental/clinic-scheduler/internal/notify"
	ucappointment "github.com/PampangaDental/clinic-scheduler/internal/usecase/appointment"
)

// ------------------------------------------------------
// fakes
// ------------------------------------------------------

type stubApptRepo struct {
	slotTaken bool
	nextID    uint
}

func (s *stubApptRepo) Create(_ context.Context, ap *models.Appointment) error {
	s.nextID++
	ap.ID = s.nextID
	return nil
}

func (s *stubApptRepo) GetByID(_ context.Context, _ uint) (*models.Appointment, error) {
	return nil, domain.ErrNotFound()
}

func (s *stubApptRepo) Update(_ context.Context, _ *models.Appointment) error { return nil }

func (s *stubApptRepo) HasActiveSlot(_ context.Context, _ time.Time, _ string, _ uint) (bool, error) {
	return s.slotTaken, nil
}

func (s *stubApptRepo) UpdateStatus(_ context.Context, _ uint, _ []domain.Status, _ domain.Status) (bool, error) {
	return false, nil
}

func (s *stubApptRepo) List(_ context.Context, _ domain.Filter) ([]models.Appointment, error) {
	return nil, nil
}

func (s *stubApptRepo) Count(_ context.Context, _ domain.Filter) (int64, error) { return 0, nil }

func (s *stubApptRepo) CountDistinctIdentities(_ context.Context) (int64, error) { return 0, nil }

type stubPatientRepo struct{}

func (stubPatientRepo) FindByPhone(_ context.Context, _ string) (*models.Patient, error) {
	return nil, nil
}

func (stubPatientRepo) FindByEmail(_ context.Context, _ string) (*models.Patient, error) {
	return nil, nil
}

func (stubPatientRepo) Create(_ context.Context, p *models.Patient) error {
	p.ID = 1
	return nil
}

type stubAuditQueue struct{ events []audit.Event }

func (s *stubAuditQueue) Dispatch(ev audit.Event) { s.events = append(s.events, ev) }

type stubNotifyQueue struct{ messages []notify.Message }

func (s *stubNotifyQueue) Dispatch(msg notify.Message) { s.messages = append(s.messages, msg) }

func newBookingRouter(repo *stubApptRepo) (*gin.Engine, *stubNotifyQueue) {
	gin.SetMode(gin.TestMode)

	notifyQ := &stubNotifyQueue{}
	uc := ucappointment.NewCreateAppointment(repo, stubPatientRepo{}, &stubAuditQueue{}, notifyQ)
	h := NewBookingHandler(uc, notifyQ)

	r := gin.New()
	r.POST("/api/public/appointments", h.CreateAppointment)
	r.POST("/api/public/contact", h.Contact)
	return r, notifyQ
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ------------------------------------------------------
// tests
// ------------------------------------------------------

func TestPublicBookingCreated(t *testing.T) {
	r, notifyQ := newBookingRouter(&stubApptRepo{})

	w := postJSON(r, "/api/public/appointments", `{
		"name": "Maria Santos",
		"phone": "0917 555 0101",
		"email": "maria@example.com",
		"services": ["Teeth Cleaning"],
		"date": "2026-03-10",
		"time": "14:00"
	}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Appointment models.Appointment `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "pending", body.Appointment.Status)
	assert.Equal(t, "2:00 PM", body.Appointment.Timeslot)

	require.Len(t, notifyQ.messages, 1)
	assert.Equal(t, "Appointment Request", notifyQ.messages[0].Subject)
}

func TestPublicBookingValidationEnvelope(t *testing.T) {
	r, _ := newBookingRouter(&stubApptRepo{})

	w := postJSON(r, "/api/public/appointments", `{"email": "nope"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		ErrorCode string            `json:"error_code"`
		Fields    map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_failed", body.ErrorCode)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "date")
	assert.Contains(t, body.Fields, "time")
}

func TestPublicBookingSlotTaken(t *testing.T) {
	r, notifyQ := newBookingRouter(&stubApptRepo{slotTaken: true})

	w := postJSON(r, "/api/public/appointments", `{
		"name": "Maria Santos",
		"phone": "0917 555 0101",
		"services": ["Teeth Cleaning"],
		"date": "2026-03-10",
		"time": "14:00"
	}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already booked")
	assert.Empty(t, notifyQ.messages)
}

func TestPublicBookingMalformedJSON(t *testing.T) {
	r, _ := newBookingRouter(&stubApptRepo{})

	w := postJSON(r, "/api/public/appointments", `{not json`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request")
}

func TestContactRelaysMessage(t *testing.T) {
	r, notifyQ := newBookingRouter(&stubApptRepo{})

	w := postJSON(r, "/api/public/contact", `{
		"name": "Jose Reyes",
		"email": "jose@example.com",
		"subject": "Billing question",
		"message": "How much is a cleaning?"
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"sent"`)

	require.Len(t, notifyQ.messages, 1)
	msg := notifyQ.messages[0]
	assert.Equal(t, "Billing question", msg.Subject)
	assert.Equal(t, "jose@example.com", msg.ReplyTo)
	assert.Contains(t, msg.Body, "From: Jose Reyes <jose@example.com>")
}

func TestContactRequiresAllFields(t *testing.T) {
	r, notifyQ := newBookingRouter(&stubApptRepo{})

	w := postJSON(r, "/api/public/contact", `{"name": "Jose Reyes"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, notifyQ.messages)
}
