package appointment

import "github.com/PampangaDental/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ActiveStatuses are the statuses that occupy a slot. Cancelled and
// completed appointments never block a booking.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s Status) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusCancelled:
		return "Cancelled"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// InitialStatus is the state every public booking starts in. Staff manual
// bookings may start confirmed instead.
func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Staff Actions
// ===============================

type Action string

const (
	ActionApprove  Action = "approve"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// ParseAction rejects unknown action names before any record is touched.
func ParseAction(raw string) (Action, error) {
	switch Action(raw) {
	case ActionApprove, ActionCancel, ActionComplete:
		return Action(raw), nil
	}
	return "", httperr.ErrBusiness("invalid_action", "Invalid action.")
}

// AllowedFrom lists the statuses an action may transition away from. The
// same set guards the status write so a stale read cannot apply a
// transition twice.
func AllowedFrom(a Action) []Status {
	switch a {
	case ActionApprove:
		return []Status{StatusPending}
	case ActionComplete:
		return []Status{StatusConfirmed}
	case ActionCancel:
		return []Status{StatusPending, StatusConfirmed}
	}
	return nil
}

func NextStatus(a Action) Status {
	switch a {
	case ActionApprove:
		return StatusConfirmed
	case ActionComplete:
		return StatusCompleted
	case ActionCancel:
		return StatusCancelled
	}
	return ""
}

// GuardError is the rejection for an action attempted from the wrong state.
func GuardError(a Action) error {
	switch a {
	case ActionApprove:
		return httperr.ErrBusiness("invalid_state", "Only pending appointments can be approved.")
	case ActionComplete:
		return httperr.ErrBusiness("invalid_state", "Only confirmed appointments can be completed.")
	case ActionCancel:
		return httperr.ErrBusiness("invalid_state", "Only pending/confirmed appointments can be cancelled.")
	}
	return httperr.ErrBusiness("invalid_action", "Invalid action.")
}

// CheckTransition validates an action against the current status without
// applying it. The authoritative check happens again at write time.
func CheckTransition(current Status, a Action) error {
	for _, s := range AllowedFrom(a) {
		if s == current {
			return nil
		}
	}
	return GuardError(a)
}
