// Package chart buckets appointment counts into day, week, month and year
// windows for the dashboard trend chart. Windows end at the anchor date and
// page by shifting the anchor one full window in either direction. Counting
// has no status filter: this is a demand chart, not a completed-visits
// chart.
package chart

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	ViewDay   = "day"
	ViewWeek  = "week"
	ViewMonth = "month"
	ViewYear  = "year"

	dayWindow   = 7
	weekWindow  = 4
	monthWindow = 6
	yearWindow  = 6
)

// Repository is the typed query surface the engine aggregates over. Date
// keys use the "2006-01-02" form; both range ends are inclusive.
type Repository interface {
	CountByDateRange(ctx context.Context, start, end time.Time) (map[string]int, error)
	CountByYearRange(ctx context.Context, firstYear, lastYear int) (map[int]int, error)
}

// Chart is the plain structure the presentation layer renders. PrevAnchor
// and NextAnchor are opaque dates echoed back verbatim to page the window.
type Chart struct {
	View        string   `json:"view"`
	Labels      []string `json:"labels"`
	Values      []int    `json:"values"`
	PeriodLabel string   `json:"period_label"`
	PrevAnchor  string   `json:"prev_start"`
	NextAnchor  string   `json:"next_start"`
}

// Build computes the chart for a view mode anchored on the given date.
// Unrecognized view modes fall back to day.
func Build(ctx context.Context, repo Repository, viewMode string, anchor time.Time) (*Chart, error) {
	anchor = dateOnly(anchor)

	switch strings.ToLower(strings.TrimSpace(viewMode)) {
	case ViewWeek:
		return buildWeek(ctx, repo, anchor)
	case ViewMonth:
		return buildMonth(ctx, repo, anchor)
	case ViewYear:
		return buildYear(ctx, repo, anchor)
	default:
		return buildDay(ctx, repo, anchor)
	}
}

func buildDay(ctx context.Context, repo Repository, anchor time.Time) (*Chart, error) {
	start := anchor.AddDate(0, 0, -(dayWindow - 1))

	counts, err := repo.CountByDateRange(ctx, start, anchor)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, dayWindow)
	values := make([]int, 0, dayWindow)
	for i := 0; i < dayWindow; i++ {
		d := start.AddDate(0, 0, i)
		labels = append(labels, d.Format("02 Jan"))
		values = append(values, counts[dateKey(d)])
	}

	return &Chart{
		View:        ViewDay,
		Labels:      labels,
		Values:      values,
		PeriodLabel: fmt.Sprintf("%s – %s", start.Format("02 Jan"), anchor.Format("02 Jan 2006")),
		PrevAnchor:  dateKey(anchor.AddDate(0, 0, -dayWindow)),
		NextAnchor:  dateKey(anchor.AddDate(0, 0, dayWindow)),
	}, nil
}

func buildWeek(ctx context.Context, repo Repository, anchor time.Time) (*Chart, error) {
	windowDays := weekWindow * 7
	start := anchor.AddDate(0, 0, -(windowDays - 1))

	counts, err := repo.CountByDateRange(ctx, start, anchor)
	if err != nil {
		return nil, err
	}

	values := make([]int, weekWindow)
	for key, n := range counts {
		d, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		idx := daysBetween(start, d) / 7
		if idx >= 0 && idx < weekWindow {
			values[idx] += n
		}
	}

	labels := make([]string, weekWindow)
	for i := range labels {
		labels[i] = fmt.Sprintf("Week %d", i+1)
	}

	return &Chart{
		View:        ViewWeek,
		Labels:      labels,
		Values:      values,
		PeriodLabel: fmt.Sprintf("%s – %s", start.Format("02 Jan"), anchor.Format("02 Jan 2006")),
		PrevAnchor:  dateKey(anchor.AddDate(0, 0, -windowDays)),
		NextAnchor:  dateKey(anchor.AddDate(0, 0, windowDays)),
	}, nil
}

func buildMonth(ctx context.Context, repo Repository, anchor time.Time) (*Chart, error) {
	// Aligned to calendar months, not a rolling 30-day window.
	lastMonthStart := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	firstMonthStart := addMonths(lastMonthStart, -(monthWindow - 1))
	lastMonthEnd := addMonths(lastMonthStart, 1).AddDate(0, 0, -1)

	counts, err := repo.CountByDateRange(ctx, firstMonthStart, lastMonthEnd)
	if err != nil {
		return nil, err
	}

	values := make([]int, monthWindow)
	for key, n := range counts {
		d, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		idx := (d.Year()-firstMonthStart.Year())*12 + int(d.Month()) - int(firstMonthStart.Month())
		if idx >= 0 && idx < monthWindow {
			values[idx] += n
		}
	}

	labels := make([]string, monthWindow)
	for i := range labels {
		labels[i] = addMonths(firstMonthStart, i).Format("Jan")
	}

	return &Chart{
		View:        ViewMonth,
		Labels:      labels,
		Values:      values,
		PeriodLabel: fmt.Sprintf("%s – %s", firstMonthStart.Format("Jan 2006"), lastMonthStart.Format("Jan 2006")),
		PrevAnchor:  dateKey(addMonths(lastMonthStart, -monthWindow)),
		NextAnchor:  dateKey(addMonths(lastMonthStart, monthWindow)),
	}, nil
}

func buildYear(ctx context.Context, repo Repository, anchor time.Time) (*Chart, error) {
	lastYear := anchor.Year()
	firstYear := lastYear - (yearWindow - 1)

	counts, err := repo.CountByYearRange(ctx, firstYear, lastYear)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, yearWindow)
	values := make([]int, 0, yearWindow)
	for y := firstYear; y <= lastYear; y++ {
		labels = append(labels, strconv.Itoa(y))
		values = append(values, counts[y])
	}

	return &Chart{
		View:        ViewYear,
		Labels:      labels,
		Values:      values,
		PeriodLabel: fmt.Sprintf("%d – %d", firstYear, lastYear),
		PrevAnchor:  dateKey(anchor.AddDate(-yearWindow, 0, 0)),
		NextAnchor:  dateKey(anchor.AddDate(yearWindow, 0, 0)),
	}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func daysBetween(start, d time.Time) int {
	return int(dateOnly(d).Sub(dateOnly(start)) / (24 * time.Hour))
}

func addMonths(d time.Time, n int) time.Time {
	return time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, d.Location())
}
