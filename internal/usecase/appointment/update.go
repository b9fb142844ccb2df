package appointment

import (
	"context"
	"strings"

	"github.com/PampangaDental/clinic-scheduler/internal/audit"
	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	"github.com/PampangaDental/clinic-scheduler/internal/httperr"
	"github.com/PampangaDental/clinic-scheduler/internal/models"
)

type UpdateAppointment struct {
	repo  domain.Repository
	audit audit.Queue
}

func NewUpdateAppointment(
	repo domain.Repository,
	auditDispatcher audit.Queue,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: auditDispatcher,
	}
}

// Execute edits an existing appointment's contact snapshot, slot, services
// and notes. Status and the patient link are untouched; the slot check
// excludes the appointment's own id so keeping the same slot never
// self-conflicts.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	id uint,
	in BookingInput,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, verr := validateBooking(in)
	if verr != nil {
		return nil, verr
	}

	taken, err := uc.repo.HasActiveSlot(ctx, fields.date, fields.startTime, ap.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, slotTaken()
	}

	ap.Name = fields.name
	ap.Phone = fields.phone
	ap.Email = fields.email
	ap.Services = fields.services
	ap.Date = fields.date
	ap.StartTime = fields.startTime
	ap.Timeslot = fields.displaySlot
	ap.Notes = strings.TrimSpace(in.Notes)

	if err := uc.repo.Update(ctx, ap); err != nil {
		if httperr.IsBusiness(err, "slot_taken") {
			return nil, slotTaken()
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
