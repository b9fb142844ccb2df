package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	"github.com/PampangaDental/clinic-scheduler/internal/models"
	"github.com/PampangaDental/clinic-scheduler/internal/timeslot"
)

const historyPerPage = 5

type ListInput struct {
	Query string

	HistoryStatus string
	HistoryFrom   string
	HistoryTo     string
	HistoryPage   int

	Today time.Time
}

type HistoryPage struct {
	Items      []models.Appointment `json:"items"`
	Page       int                  `json:"page"`
	PerPage    int                  `json:"per_page"`
	Total      int64                `json:"total"`
	TotalPages int                  `json:"total_pages"`
}

type ListResult struct {
	Pending  []models.Appointment `json:"pending_requests"`
	Upcoming []models.Appointment `json:"upcoming_appointments"`
	History  HistoryPage          `json:"recent_history"`

	Query         string `json:"q"`
	HistoryStatus string `json:"history_status"`
	HistoryFrom   string `json:"history_from"`
	HistoryTo     string `json:"history_to"`
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute assembles the three panes of the appointments screen: pending
// requests, upcoming confirmed visits, and the paginated cancelled/completed
// history with its optional status and date filters.
func (uc *ListAppointments) Execute(ctx context.Context, in ListInput) (*ListResult, error) {
	q := strings.TrimSpace(in.Query)

	pending, err := uc.repo.List(ctx, domain.Filter{
		Query:    q,
		Statuses: []domain.Status{domain.StatusPending},
		Sort:     domain.SortSchedule,
	})
	if err != nil {
		return nil, err
	}

	today := in.Today
	upcoming, err := uc.repo.List(ctx, domain.Filter{
		Query:    q,
		Statuses: []domain.Status{domain.StatusConfirmed},
		DateFrom: &today,
		Sort:     domain.SortSchedule,
	})
	if err != nil {
		return nil, err
	}

	// Invalid history filters reset silently instead of erroring.
	status := strings.TrimSpace(in.HistoryStatus)
	if status != string(domain.StatusCancelled) && status != string(domain.StatusCompleted) {
		status = ""
	}

	histFilter := domain.Filter{
		Query:    q,
		Statuses: []domain.Status{domain.StatusCancelled, domain.StatusCompleted},
		Sort:     domain.SortHistory,
	}
	if status != "" {
		histFilter.Statuses = []domain.Status{domain.Status(status)}
	}

	fromStr, toStr := strings.TrimSpace(in.HistoryFrom), strings.TrimSpace(in.HistoryTo)
	if from, ok := timeslot.ParseDate(fromStr); ok {
		histFilter.DateFrom = &from
	} else {
		fromStr = ""
	}
	if to, ok := timeslot.ParseDate(toStr); ok {
		histFilter.DateTo = &to
	} else {
		toStr = ""
	}

	total, err := uc.repo.Count(ctx, histFilter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + historyPerPage - 1) / historyPerPage)
	page := in.HistoryPage
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	histFilter.Limit = historyPerPage
	histFilter.Offset = (page - 1) * historyPerPage

	history, err := uc.repo.List(ctx, histFilter)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Pending:  pending,
		Upcoming: upcoming,
		History: HistoryPage{
			Items:      history,
			Page:       page,
			PerPage:    historyPerPage,
			Total:      total,
			TotalPages: totalPages,
		},
		Query:         q,
		HistoryStatus: status,
		HistoryFrom:   fromStr,
		HistoryTo:     toStr,
	}, nil
}
