package dashboard

import "vence-cli/internal/model"

// DayDetail is the content of the day modal.
type DayDetail struct {
	Date  model.Date         `json:"date"`
	Title string             `json:"title"`
	Items []model.Obligation `json:"items"`
}

func OpenDay(date model.Date, obs []model.Obligation) DayDetail {
	return DayDetail{
		Date:  date,
		Title: "Due on " + date.DayMonth(),
		Items: obs,
	}
}

// ObligationsOn returns the obligations due exactly on date, in input order.
func ObligationsOn(obs []model.Obligation, date model.Date) []model.Obligation {
	var out []model.Obligation
	for _, o := range obs {
		if o.DueDate == date {
			out = append(out, o)
		}
	}
	return out
}
