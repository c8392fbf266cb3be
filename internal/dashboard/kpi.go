package dashboard

import (
	"slices"

	"vence-cli/internal/model"
)

// Summary holds the dashboard KPIs computed over the unfiltered list.
type Summary struct {
	Pending   int        `json:"pending"`
	Presented int        `json:"presented"`
	NextDue   model.Date `json:"next_due,omitempty"`
}

func (s Summary) HasNextDue() bool { return !s.NextDue.IsZero() }

// NextDueLabel renders the next due date as d/m, or "--" when nothing is pending.
func (s Summary) NextDueLabel() string {
	if !s.HasNextDue() {
		return "--"
	}
	return s.NextDue.Short()
}

func Summarize(obs []model.Obligation) Summary {
	var s Summary
	var pending []model.Obligation
	for _, o := range obs {
		switch o.Status {
		case model.StatusPending:
			s.Pending++
			pending = append(pending, o)
		case model.StatusPresented:
			s.Presented++
		}
	}
	if len(pending) == 0 {
		return s
	}
	// YYYY-MM-DD sorts lexically; stable keeps input order on ties.
	slices.SortStableFunc(pending, func(a, b model.Obligation) int {
		switch {
		case a.DueDate < b.DueDate:
			return -1
		case a.DueDate > b.DueDate:
			return 1
		default:
			return 0
		}
	})
	s.NextDue = pending[0].DueDate
	return s
}
