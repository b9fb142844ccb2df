package appointment

import (
	"context"
	"time"

	"github.com/PampangaDental/clinic-scheduler/internal/models"
)

// Sort names the orderings the listing screens use. The repository maps
// these to concrete ORDER BY clauses; nothing else is accepted.
type Sort string

const (
	// SortSchedule: date asc, start time asc, name asc.
	SortSchedule Sort = "schedule"
	// SortHistory: date desc, start time asc, name asc.
	SortHistory Sort = "history"
	// SortRecent: date desc, start time desc, id desc.
	SortRecent Sort = "recent"
)

// Filter narrows a listing or count. Zero values mean "not applied".
type Filter struct {
	// Query matches name, phone or email case-insensitively as a substring.
	Query string

	Statuses []Status

	Date     *time.Time
	DateFrom *time.Time
	DateTo   *time.Time

	CreatedFrom *time.Time
	CreatedTo   *time.Time

	Sort   Sort
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, ap *models.Appointment) error

	GetByID(ctx context.Context, id uint) (*models.Appointment, error)

	Update(ctx context.Context, ap *models.Appointment) error

	// HasActiveSlot reports whether an appointment in an active status
	// already occupies (date, startTime). excludeID skips the caller's own
	// record when editing; zero excludes nothing.
	HasActiveSlot(ctx context.Context, date time.Time, startTime string, excludeID uint) (bool, error)

	// UpdateStatus writes the new status only if the current status is
	// still one of from, re-checking the precondition at commit time. It
	// reports whether a row was updated.
	UpdateStatus(ctx context.Context, id uint, from []Status, to Status) (bool, error)

	List(ctx context.Context, f Filter) ([]models.Appointment, error)

	Count(ctx context.Context, f Filter) (int64, error)

	// CountDistinctIdentities counts distinct (name, phone, email) triples
	// across all appointments.
	CountDistinctIdentities(ctx context.Context) (int64, error)
}
