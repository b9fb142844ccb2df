package dashboard

import (
	"context"
	"math"
	"strings"
	"time"

	domain "github.com/PampangaDental/clinic-scheduler/internal/domain/appointment"
	"github.com/PampangaDental/clinic-scheduler/internal/models"
)

type KPI struct {
	Value  int64   `json:"value"`
	Change float64 `json:"change"`
}

type HomeResult struct {
	Today time.Time `json:"today"`

	PatientsToday KPI `json:"kpi_patients_today"`
	TotalPatients KPI `json:"kpi_total_patients"`
	Requests30    KPI `json:"kpi_requests_30"`
	UpcomingWeek  KPI `json:"kpi_upcoming_week"`

	TodaysSlots    []models.Appointment `json:"todays_slots"`
	Upcoming       []models.Appointment `json:"upcoming"`
	LatestPatients []models.Appointment `json:"latest_patients"`
}

type HomeView struct {
	repo domain.Repository
}

func NewHomeView(repo domain.Repository) *HomeView {
	return &HomeView{repo: repo}
}

// Execute gathers the dashboard home KPIs and widget lists. today is the
// clinic-local calendar day, now the wall-clock instant for the created-at
// windows.
func (uc *HomeView) Execute(ctx context.Context, today time.Time, now time.Time) (*HomeResult, error) {
	last30 := now.AddDate(0, 0, -30)
	prev30Start := now.AddDate(0, 0, -60)
	next7 := today.AddDate(0, 0, 7)
	prev7Start := today.AddDate(0, 0, -7)
	yesterday := today.AddDate(0, 0, -1)

	patientsToday, err := uc.repo.Count(ctx, domain.Filter{Date: &today})
	if err != nil {
		return nil, err
	}
	patientsYesterday, err := uc.repo.Count(ctx, domain.Filter{Date: &yesterday})
	if err != nil {
		return nil, err
	}

	totalPatients, err := uc.repo.CountDistinctIdentities(ctx)
	if err != nil {
		return nil, err
	}

	requests30, err := uc.repo.Count(ctx, domain.Filter{CreatedFrom: &last30})
	if err != nil {
		return nil, err
	}
	requestsPrev30, err := uc.repo.Count(ctx, domain.Filter{CreatedFrom: &prev30Start, CreatedTo: &last30})
	if err != nil {
		return nil, err
	}
	requestsChange := pctChange(requests30, requestsPrev30)

	upcomingWeek, err := uc.repo.Count(ctx, domain.Filter{DateFrom: &today, DateTo: &next7})
	if err != nil {
		return nil, err
	}
	prevWeek, err := uc.repo.Count(ctx, domain.Filter{DateFrom: &prev7Start, DateTo: &yesterday})
	if err != nil {
		return nil, err
	}

	todaysSlots, err := uc.repo.List(ctx, domain.Filter{Date: &today, Sort: domain.SortSchedule})
	if err != nil {
		return nil, err
	}

	upcoming, err := uc.repo.List(ctx, domain.Filter{
		Statuses: []domain.Status{domain.StatusConfirmed, domain.StatusCompleted},
		Sort:     domain.SortSchedule,
	})
	if err != nil {
		return nil, err
	}

	latest, err := uc.latestPatients(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &HomeResult{
		Today:         today,
		PatientsToday: KPI{Value: patientsToday, Change: pctChange(patientsToday, patientsYesterday)},
		TotalPatients: KPI{Value: totalPatients, Change: requestsChange},
		Requests30:    KPI{Value: requests30, Change: requestsChange},
		UpcomingWeek:  KPI{Value: upcomingWeek, Change: pctChange(upcomingWeek, prevWeek)},

		TodaysSlots:    todaysSlots,
		Upcoming:       upcoming,
		LatestPatients: latest,
	}, nil
}

// latestPatients shows the most recently completed visits, de-duplicated by
// contact identity so the same person doesn't appear repeatedly.
func (uc *HomeView) latestPatients(ctx context.Context, limit int) ([]models.Appointment, error) {
	completed, err := uc.repo.List(ctx, domain.Filter{
		Statuses: []domain.Status{domain.StatusCompleted},
		Sort:     domain.SortRecent,
	})
	if err != nil {
		return nil, err
	}

	type identity struct{ phone, email, name string }
	seen := map[identity]struct{}{}
	latest := make([]models.Appointment, 0, limit)

	for _, a := range completed {
		key := identity{
			phone: strings.TrimSpace(a.Phone),
			email: strings.TrimSpace(a.Email),
			name:  strings.ToLower(strings.TrimSpace(a.Name)),
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		latest = append(latest, a)
		if len(latest) >= limit {
			break
		}
	}

	return latest, nil
}

func pctChange(curr, prev int64) float64 {
	if prev == 0 {
		if curr > 0 {
			return 100.0
		}
		return 0.0
	}
	return math.Round(float64(curr-prev)*100.0/float64(prev)*100) / 100
}
