package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/PampangaDental/clinic-scheduler/internal/chart"
	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	"github.com/PampangaDental/clinic-scheduler/internal/models"
	"github.com/PampangaDental/clinic-scheduler/internal/usecase/dashboard"
)

const dateLayout = "2006-01-02"

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Create / Read / Update
// --------------------------------------------------

func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).Create(ap).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// The partial unique index on active (date, start_time) fired: a
		// concurrent booking won the slot between pre-check and write.
		return domain.ErrSlotTaken()
	}
	return err
}

func (r *AppointmentGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound()
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).Save(ap).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrSlotTaken()
	}
	return err
}

// --------------------------------------------------
// Slot conflict
// --------------------------------------------------

func (r *AppointmentGormRepository) HasActiveSlot(
	ctx context.Context,
	date time.Time,
	startTime string,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"date = ? AND start_time = ? AND status IN ?",
			date.Format(dateLayout),
			startTime,
			statusStrings(domain.ActiveStatuses),
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// --------------------------------------------------
// Status transition
// --------------------------------------------------

func (r *AppointmentGormRepository) UpdateStatus(
	ctx context.Context,
	id uint,
	from []domain.Status,
	to domain.Status,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", id, statusStrings(from)).
		Update("status", string(to))

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// --------------------------------------------------
// Listing / counting
// --------------------------------------------------

func (r *AppointmentGormRepository) List(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	q := r.applyFilter(r.db.WithContext(ctx).Model(&models.Appointment{}), f)

	switch f.Sort {
	case domain.SortHistory:
		q = q.Order("date DESC, start_time ASC, name ASC")
	case domain.SortRecent:
		q = q.Order("date DESC, start_time DESC, id DESC")
	default:
		q = q.Order("date ASC, start_time ASC, name ASC")
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var out []models.Appointment
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentGormRepository) Count(
	ctx context.Context,
	f domain.Filter,
) (int64, error) {

	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Appointment{}), f).
		Count(&count).Error
	return count, err
}

func (r *AppointmentGormRepository) CountDistinctIdentities(
	ctx context.Context,
) (int64, error) {

	// Count over a subquery: a bare Distinct(...).Count collapses to
	// count(*) and would tally appointments, not identities.
	identities := r.db.
		Model(&models.Appointment{}).
		Distinct("name", "phone", "email")

	var count int64
	err := r.db.WithContext(ctx).
		Table("(?) AS identities", identities).
		Count(&count).Error
	return count, err
}

func (r *AppointmentGormRepository) applyFilter(q *gorm.DB, f domain.Filter) *gorm.DB {
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("(name ILIKE ? OR phone ILIKE ? OR email ILIKE ?)", like, like, like)
	}

	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", statusStrings(f.Statuses))
	}

	if f.Date != nil {
		q = q.Where("date = ?", f.Date.Format(dateLayout))
	}
	if f.DateFrom != nil {
		q = q.Where("date >= ?", f.DateFrom.Format(dateLayout))
	}
	if f.DateTo != nil {
		q = q.Where("date <= ?", f.DateTo.Format(dateLayout))
	}

	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at < ?", *f.CreatedTo)
	}

	return q
}

// --------------------------------------------------
// Chart aggregation queries
// --------------------------------------------------

func (r *AppointmentGormRepository) CountByDateRange(
	ctx context.Context,
	start, end time.Time,
) (map[string]int, error) {

	type row struct {
		Date  time.Time
		Count int
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("date, COUNT(id) AS count").
		Where("date BETWEEN ? AND ?", start.Format(dateLayout), end.Format(dateLayout)).
		Group("date").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int, len(rows))
	for _, rw := range rows {
		out[rw.Date.Format(dateLayout)] = rw.Count
	}
	return out, nil
}

func (r *AppointmentGormRepository) CountByYearRange(
	ctx context.Context,
	firstYear, lastYear int,
) (map[int]int, error) {

	type row struct {
		Year  int
		Count int
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("EXTRACT(YEAR FROM date)::int AS year, COUNT(id) AS count").
		Where("date BETWEEN ? AND ?",
			fmt.Sprintf("%d-01-01", firstYear),
			fmt.Sprintf("%d-12-31", lastYear),
		).
		Group("year").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[int]int, len(rows))
	for _, rw := range rows {
		out[rw.Year] = rw.Count
	}
	return out, nil
}

// --------------------------------------------------
// Patient rollup queries
// --------------------------------------------------

func (r *AppointmentGormRepository) GroupByIdentity(
	ctx context.Context,
	query string,
) ([]dashboard.PatientRollupRow, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select(`name, phone, email,
			MIN(id) AS patient_key,
			MIN(created_at) AS first_seen,
			MAX(date) AS last_seen,
			COUNT(id) AS total_appointments,
			COUNT(id) FILTER (WHERE status = 'pending') AS pending_count,
			COUNT(id) FILTER (WHERE status = 'confirmed') AS confirmed_count,
			COUNT(id) FILTER (WHERE status = 'completed') AS completed_count,
			COUNT(id) FILTER (WHERE status = 'cancelled') AS cancelled_count`).
		Group("name, phone, email").
		Order("last_seen DESC, name ASC")

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("(name ILIKE ? OR phone ILIKE ? OR email ILIKE ?)", like, like, like)
	}

	var rows []dashboard.PatientRollupRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentGormRepository) ListForIdentity(
	ctx context.Context,
	name, phone, email string,
) ([]models.Appointment, error) {

	var out []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("name = ? AND phone = ? AND email = ?", name, phone, email).
		Order("date DESC, start_time DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// Compile-time checks
var (
	_ domain.Repository          = (*AppointmentGormRepository)(nil)
	_ chart.Repository           = (*AppointmentGormRepository)(nil)
	_ dashboard.RollupRepository = (*AppointmentGormRepository)(nil)
)
