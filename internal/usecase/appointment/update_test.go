package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PampangaDental/clinic-scheduler/internal/httperr"
)

func TestUpdateEditsDetailsKeepingStatus(t *testing.T) {
	repo := newFakeApptRepo()
	ap := seedAppointment(repo, 1, "confirmed")
	ap.PatientID = ptrUint(42)
	auditQ := &fakeAuditQueue{}
	uc := NewUpdateAppointment(repo, auditQ)

	in := validInput()
	in.Date = "2026-03-12"
	in.Time = "9:30 AM"
	in.Notes = "  Follow-up filling  "

	staff := uint(5)
	got, err := uc.Execute(context.Background(), 1, in, &staff)
	require.NoError(t, err)

	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, "09:30", got.StartTime)
	assert.Equal(t, "9:30 AM", got.Timeslot)
	assert.Equal(t, "Follow-up filling", got.Notes)

	// The patient link set at booking time survives an edit.
	require.NotNil(t, got.PatientID)
	assert.Equal(t, uint(42), *got.PatientID)

	require.Len(t, auditQ.events, 1)
	assert.Equal(t, "appointment_updated", auditQ.events[0].Action)
}

func TestUpdateKeepingOwnSlotDoesNotSelfConflict(t *testing.T) {
	repo := newFakeApptRepo()
	seedAppointment(repo, 1, "pending")
	uc := NewUpdateAppointment(repo, &fakeAuditQueue{})

	// Same date and time the appointment already holds.
	got, err := uc.Execute(context.Background(), 1, validInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, "14:00", got.StartTime)
}

func TestUpdateRejectsMoveOntoTakenSlot(t *testing.T) {
	repo := newFakeApptRepo()
	seedAppointment(repo, 1, "pending")
	other := seedAppointment(repo, 2, "confirmed")
	other.StartTime = "15:00"
	repo.activeSlots[slotKey(other.Date, "15:00")] = 2

	uc := NewUpdateAppointment(repo, &fakeAuditQueue{})

	in := validInput()
	in.Time = "15:00"

	_, err := uc.Execute(context.Background(), 1, in, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Form, "already booked")
}

func TestUpdateMissingAppointment(t *testing.T) {
	repo := newFakeApptRepo()
	uc := NewUpdateAppointment(repo, &fakeAuditQueue{})

	_, err := uc.Execute(context.Background(), 99, validInput(), nil)

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "not_found", be.Code)
}

func TestUpdateStorageFaultIsNotNotFound(t *testing.T) {
	repo := newFakeApptRepo()
	seedAppointment(repo, 1, "pending")
	repo.getErr = errors.New("connection refused")
	uc := NewUpdateAppointment(repo, &fakeAuditQueue{})

	_, err := uc.Execute(context.Background(), 1, validInput(), nil)
	require.Error(t, err)

	_, ok := httperr.AsBusiness(err)
	assert.False(t, ok)
	assert.EqualError(t, err, "connection refused")
}

func ptrUint(v uint) *uint { return &v }
