package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/PampangaDental/clinic-scheduler/internal/audit"
	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	patientdomain "github.com/PampangaDental/clinic-scheduler/internal/domain/patient"
	"github.com/PampangaDental/clinic-scheduler/internal/httperr"
	"github.com/PampangaDental/clinic-scheduler/internal/models"
	"github.com/PampangaDental/clinic-scheduler/internal/notify"
)

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	patients patientdomain.Repository
	audit    audit.Queue
	notify   notify.Queue
}

func NewCreateAppointment(
	repo domain.Repository,
	patients patientdomain.Repository,
	auditDispatcher audit.Queue,
	notifyQueue notify.Queue,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		patients: patients,
		audit:    auditDispatcher,
		notify:   notifyQueue,
	}
}

// Execute books a new appointment. The public flow passes StatusPending and
// no actor; staff manual entry passes StatusConfirmed and the staff user id.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in BookingInput,
	initial domain.Status,
	actorID *uint,
) (*models.Appointment, error) {

	fields, verr := validateBooking(in)
	if verr != nil {
		return nil, verr
	}

	// Pre-flight check for a friendly message; the partial unique index is
	// what actually closes the race.
	taken, err := uc.repo.HasActiveSlot(ctx, fields.date, fields.startTime, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, slotTaken()
	}

	pat, err := patientdomain.Resolve(ctx, uc.patients, fields.name, fields.phone, fields.email)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		Name:      fields.name,
		Phone:     fields.phone,
		Email:     fields.email,
		Services:  fields.services,
		Date:      fields.date,
		StartTime: fields.startTime,
		Timeslot:  fields.displaySlot,
		Notes:     strings.TrimSpace(in.Notes),
		Status:    string(initial),
	}
	if pat != nil {
		ap.PatientID = &pat.ID
	}

	if err := uc.repo.Create(ctx, ap); err != nil {
		if httperr.IsBusiness(err, "slot_taken") {
			return nil, slotTaken()
		}
		return nil, err
	}

	action := "appointment_requested"
	if actorID != nil {
		action = "appointment_created"
	}
	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	// Only public requests email the front desk; staff already know.
	if initial == domain.StatusPending {
		uc.notify.Dispatch(bookingMessage(ap))
	}

	return ap, nil
}

func bookingMessage(ap *models.Appointment) notify.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", ap.Name)
	fmt.Fprintf(&b, "Phone: %s\n", ap.Phone)
	fmt.Fprintf(&b, "Email: %s\n", ap.Email)
	fmt.Fprintf(&b, "Date: %s\n", ap.Date.Format("Monday, January 02, 2006"))
	fmt.Fprintf(&b, "Time: %s\n", ap.Timeslot)
	fmt.Fprintf(&b, "Services: %s\n", strings.Join(ap.Services, ", "))
	if ap.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", ap.Notes)
	}

	return notify.Message{
		Subject: "Appointment Request",
		Body:    b.String(),
		ReplyTo: ap.Email,
	}
}
