package appointment

import (
	"context"

	"github.com/PampangaDental/clinic-scheduler/internal/audit"
	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	"github.com/PampangaDental/clinic-scheduler/internal/models"
)

type TransitionAppointment struct {
	repo  domain.Repository
	audit audit.Queue
}

func NewTransitionAppointment(
	repo domain.Repository,
	auditDispatcher audit.Queue,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:  repo,
		audit: auditDispatcher,
	}
}

// Execute applies a staff action (approve, cancel, complete) to an
// appointment. The action name is rejected before any record is touched;
// the status precondition is re-checked by the guarded UPDATE so two staff
// members racing on the same appointment cannot both apply.
func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	id uint,
	actionName string,
	actorID *uint,
) (*models.Appointment, error) {

	action, err := domain.ParseAction(actionName)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckTransition(domain.Status(ap.Status), action); err != nil {
		return nil, err
	}

	applied, err := uc.repo.UpdateStatus(ctx, id, domain.AllowedFrom(action), domain.NextStatus(action))
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost a race since the read above: either the record is gone or a
		// concurrent transition moved it out of the allowed set.
		if _, err := uc.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.GuardError(action)
	}

	ap.Status = string(domain.NextStatus(action))

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "appointment_" + string(domain.NextStatus(action)),
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
