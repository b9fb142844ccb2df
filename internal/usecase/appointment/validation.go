package appointment

import (
	"sort"
	"strings"
	"time"

	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	"github.com/PampangaDental/clinic-scheduler/internal/timeslot"
	"github.com/PampangaDental/clinic-scheduler/internal/validators"
)

const requiredMessage = "This field is required."

// ValidationError carries field-level messages plus an optional form-level
// message. The request that produced it is never partially applied.
type ValidationError struct {
	Fields map[string]string `json:"fields,omitempty"`
	Form   string            `json:"form,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Form != "" {
		return e.Form
	}
	return "validation failed"
}

func slotTaken() *ValidationError {
	return &ValidationError{Form: domain.SlotTakenMessage}
}

// BookingInput is the raw booking form, shared by the public page (pending)
// and the staff manual entry (confirmed).
type BookingInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`

	Services []string `json:"services"`

	Date  string `json:"date"`
	Time  string `json:"time"`
	Notes string `json:"notes"`
}

// bookingFields is the validated, normalized form of a BookingInput.
type bookingFields struct {
	name  string
	phone string
	email string

	date        time.Time
	startTime   string
	displaySlot string

	services []string
}

func validateBooking(in BookingInput) (bookingFields, *ValidationError) {
	errs := map[string]string{}
	var out bookingFields

	out.name = strings.TrimSpace(in.Name)
	if out.name == "" {
		errs["name"] = requiredMessage
	}

	out.phone = strings.TrimSpace(in.Phone)
	if out.phone == "" {
		errs["phone"] = requiredMessage
	}

	out.email = strings.TrimSpace(in.Email)
	if out.email != "" && !validators.IsEmailFormatValid(out.email) {
		errs["email"] = "Enter a valid email address."
	}

	if strings.TrimSpace(in.Date) == "" {
		errs["date"] = requiredMessage
	} else if d, ok := timeslot.ParseDate(in.Date); ok {
		out.date = d
	} else {
		errs["date"] = "Enter a valid date (YYYY-MM-DD)."
	}

	if strings.TrimSpace(in.Time) == "" {
		errs["time"] = requiredMessage
	} else if t, ok := timeslot.ParseTimeslot(in.Time); ok {
		out.startTime = t.Format(timeslot.CanonicalLayout)
		out.displaySlot = t.Format(timeslot.DisplayLayout)
	} else {
		errs["time"] = "Enter a valid time."
	}

	out.services = NormalizeServices(in.Services)
	if len(out.services) == 0 {
		errs["services"] = "Select at least one service."
	}

	if len(errs) > 0 {
		return out, &ValidationError{Fields: errs}
	}
	return out, nil
}

// NormalizeServices trims, drops empties, de-duplicates and sorts the
// selected service names.
func NormalizeServices(raw []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
