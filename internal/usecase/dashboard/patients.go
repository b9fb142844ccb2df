package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	"github.com/PampangaDental/clinic-scheduler/internal/models"
)

const (
	upcomingScheduleCap = 6
	visitHistoryCap     = 8
	documentItemsCap    = 4
)

// PatientRollupRow is one distinct (name, phone, email) identity found
// among appointments. PatientKey is the minimum appointment id of the
// group: a stable selection handle for the UI, not a real identity.
type PatientRollupRow struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`

	PatientKey uint `gorm:"column:patient_key" json:"patient_key"`

	FirstSeen time.Time `gorm:"column:first_seen" json:"first_seen"`
	LastSeen  time.Time `gorm:"column:last_seen" json:"last_seen"`

	Total     int `gorm:"column:total_appointments" json:"total_appointments"`
	Pending   int `gorm:"column:pending_count" json:"pending_count"`
	Confirmed int `gorm:"column:confirmed_count" json:"confirmed_count"`
	Completed int `gorm:"column:completed_count" json:"completed_count"`
	Cancelled int `gorm:"column:cancelled_count" json:"cancelled_count"`
}

// RollupRepository is the grouped-query surface the patient screen needs.
type RollupRepository interface {
	// GroupByIdentity aggregates appointments per distinct identity,
	// optionally narrowed by a case-insensitive substring on name, phone or
	// email, ordered by most recent last-seen date then name.
	GroupByIdentity(ctx context.Context, query string) ([]PatientRollupRow, error)

	// ListForIdentity returns the identity's appointments, most recent
	// first (date desc, start time desc).
	ListForIdentity(ctx context.Context, name, phone, email string) ([]models.Appointment, error)
}

type QuickStats struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Upcoming  int     `json:"upcoming"`
	Cancelled int     `json:"cancelled"`
	Adherence float64 `json:"adherence"`
}

type DocumentItem struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Meta     string `json:"meta"`
	Status   string `json:"status"`
}

type AssuranceCard struct {
	MemberNumber string    `json:"member_number"`
	Status       string    `json:"status"`
	Expiry       time.Time `json:"expiry"`
}

type PatientRollupResult struct {
	Queue    []PatientRollupRow `json:"patient_queue"`
	Selected *PatientRollupRow  `json:"selected_patient"`

	UpcomingSchedule []models.Appointment `json:"upcoming_schedule"`
	VisitHistory     []models.Appointment `json:"visit_history"`
	Documents        []DocumentItem       `json:"document_items"`

	QuickStats    QuickStats    `json:"quick_stats"`
	AssuranceCard AssuranceCard `json:"assurance_card"`
}

type PatientRollup struct {
	repo RollupRepository
}

func NewPatientRollup(repo RollupRepository) *PatientRollup {
	return &PatientRollup{repo: repo}
}

// Execute builds the patient-management screen: the identity queue plus the
// detail panels for the selected row (first row when selectedKey is absent
// or matches nothing).
func (uc *PatientRollup) Execute(
	ctx context.Context,
	query string,
	selectedKey string,
	today time.Time,
) (*PatientRollupResult, error) {

	queue, err := uc.repo.GroupByIdentity(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}

	res := &PatientRollupResult{
		Queue:            queue,
		UpcomingSchedule: []models.Appointment{},
		VisitHistory:     []models.Appointment{},
		Documents:        []DocumentItem{},
		AssuranceCard:    AssuranceCard{Status: "New", Expiry: today},
	}

	if len(queue) == 0 {
		return res, nil
	}

	selected := &queue[0]
	if wanted, err := strconv.ParseUint(strings.TrimSpace(selectedKey), 10, 64); err == nil {
		for i := range queue {
			if queue[i].PatientKey == uint(wanted) {
				selected = &queue[i]
				break
			}
		}
	}
	res.Selected = selected

	visits, err := uc.repo.ListForIdentity(ctx, selected.Name, selected.Phone, selected.Email)
	if err != nil {
		return nil, err
	}

	res.UpcomingSchedule = upcomingSchedule(visits, today)
	if len(visits) > visitHistoryCap {
		visits = visits[:visitHistoryCap]
	}
	res.VisitHistory = visits
	res.Documents = documentItems(visits)

	res.QuickStats = QuickStats{
		Total:     selected.Total,
		Completed: selected.Completed,
		Upcoming:  selected.Pending + selected.Confirmed,
		Cancelled: selected.Cancelled,
		Adherence: Adherence(selected.Completed, selected.Total),
	}

	status := "New"
	if selected.Completed > 0 {
		status = "Active"
	}
	res.AssuranceCard = AssuranceCard{
		MemberNumber: fmt.Sprintf("%03d-%d-%03d", selected.PatientKey, today.Year(), selected.Total),
		Status:       status,
		Expiry:       today.AddDate(0, 0, 365),
	}

	return res, nil
}

// Adherence is the share of appointments that were completed, as a
// percentage rounded to one decimal. Zero total yields zero.
func Adherence(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)*1000.0/float64(total)) / 10
}

// upcomingSchedule picks the identity's active appointments from today
// onward, soonest first.
func upcomingSchedule(visits []models.Appointment, today time.Time) []models.Appointment {
	out := make([]models.Appointment, 0, upcomingScheduleCap)
	for _, a := range visits {
		if a.Date.Before(today) {
			continue
		}
		switch domain.Status(a.Status) {
		case domain.StatusPending, domain.StatusConfirmed:
			out = append(out, a)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})

	if len(out) > upcomingScheduleCap {
		out = out[:upcomingScheduleCap]
	}
	return out
}

func documentItems(visits []models.Appointment) []DocumentItem {
	items := make([]DocumentItem, 0, documentItemsCap)
	for _, a := range visits {
		if len(items) >= documentItemsCap {
			break
		}

		subtitle := "General dental service"
		if len(a.Services) > 0 {
			subtitle = strings.Join(a.Services, ", ")
		}

		noteWords := len(strings.Fields(a.Notes))
		items = append(items, DocumentItem{
			Title:    fmt.Sprintf("Visit summary #%d", a.ID),
			Subtitle: subtitle,
			Meta:     fmt.Sprintf("%s - %d note words", a.Date.Format("02 Jan 2006"), noteWords),
			Status:   domain.Status(a.Status).Display(),
		})
	}
	return items
}
