// Package dashboard holds the presentation logic shared by the terminal and
// HTML front ends: filtering, KPIs, the month calendar and the client-side
// state container.
package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"vence-cli/internal/model"
)

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPresented StatusFilter = "presented"
	StatusPending   StatusFilter = "pending"
	StatusLate      StatusFilter = "late"
)

var statusFilters = []StatusFilter{StatusAll, StatusPresented, StatusPending, StatusLate}

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch v := StatusFilter(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return StatusAll, nil
	case StatusAll, StatusPresented, StatusPending, StatusLate:
		return v, nil
	default:
		return "", fmt.Errorf("invalid status filter %q (expected all|presented|pending|late)", s)
	}
}

// Next cycles through the status filters in display order.
func (f StatusFilter) Next() StatusFilter {
	for i, v := range statusFilters {
		if v == f {
			return statusFilters[(i+1)%len(statusFilters)]
		}
	}
	return StatusAll
}

type TimeWindow string

const (
	TimeAll   TimeWindow = "all"
	TimeWeek  TimeWindow = "week"
	TimeMonth TimeWindow = "month"
)

var timeWindows = []TimeWindow{TimeAll, TimeWeek, TimeMonth}

func ParseTimeWindow(s string) (TimeWindow, error) {
	switch v := TimeWindow(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return TimeAll, nil
	case TimeAll, TimeWeek, TimeMonth:
		return v, nil
	default:
		return "", fmt.Errorf("invalid time window %q (expected all|week|month)", s)
	}
}

func (w TimeWindow) Next() TimeWindow {
	for i, v := range timeWindows {
		if v == w {
			return timeWindows[(i+1)%len(timeWindows)]
		}
	}
	return TimeAll
}

// Criteria are the list filters. The zero value matches everything.
type Criteria struct {
	Search string
	Status StatusFilter
	Time   TimeWindow
}

func (c Criteria) IsZero() bool {
	return c.Search == "" && (c.Status == "" || c.Status == StatusAll) && (c.Time == "" || c.Time == TimeAll)
}

// Match reports whether o passes every active predicate.
func (c Criteria) Match(o model.Obligation, now time.Time) bool {
	return matchSearch(o, c.Search) && matchStatus(o, c.Status, now) && matchTime(o, c.Time, now)
}

// Filter returns the obligations matching c, in input order.
func Filter(obs []model.Obligation, c Criteria, now time.Time) []model.Obligation {
	out := make([]model.Obligation, 0, len(obs))
	for _, o := range obs {
		if c.Match(o, now) {
			out = append(out, o)
		}
	}
	return out
}

func matchSearch(o model.Obligation, search string) bool {
	if search == "" {
		return true
	}
	// Name is case-insensitive; CUIT is matched raw.
	if strings.Contains(strings.ToLower(o.ClientName), strings.ToLower(search)) {
		return true
	}
	return strings.Contains(o.CUIT, search)
}

func matchStatus(o model.Obligation, f StatusFilter, now time.Time) bool {
	switch f {
	case StatusPresented:
		return o.Status == model.StatusPresented
	case StatusPending:
		return o.Status == model.StatusPending
	case StatusLate:
		return o.IsLate(now)
	default:
		return true
	}
}

func matchTime(o model.Obligation, w TimeWindow, now time.Time) bool {
	switch w {
	case TimeWeek:
		days, ok := daysUntil(o.DueDate, now)
		return ok && days >= 0 && days <= 7
	case TimeMonth:
		due := o.DueDate.In(now.Location())
		// Year is deliberately not compared.
		return !due.IsZero() && due.Month() == now.Month()
	default:
		return true
	}
}

// daysUntil is the distance from now to the due day's local midnight, rounded
// up to whole days.
func daysUntil(d model.Date, now time.Time) (int, bool) {
	due := d.In(now.Location())
	if due.IsZero() {
		return 0, false
	}
	diff := due.Sub(now)
	return int(math.Ceil(diff.Hours() / 24)), true
}
