package appointment

import "github.com/PampangaDental/clinic-scheduler/internal/httperr"

// SlotTakenMessage is the single user-facing error for a slot collision,
// used by both the pre-flight check and the storage-constraint path.
const SlotTakenMessage = "The selected date or time is already booked. Please choose a different date or time."

func ErrSlotTaken() error {
	return httperr.ErrBusiness("slot_taken", SlotTakenMessage)
}

// ErrNotFound covers a missing appointment id. Storage failures are never
// mapped to it; they stay server faults.
func ErrNotFound() error {
	return httperr.ErrBusiness("not_found", "Appointment not found.")
}
