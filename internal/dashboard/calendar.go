package dashboard

import (
	"fmt"
	"strings"
	"time"

	"vence-cli/internal/model"
)

// MaxPills is the number of preview pills drawn in a calendar day cell.
const MaxPills = 3

// Month identifies a displayed calendar month.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses YYYY-MM.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
	}
	return MonthOf(t), nil
}

// Add moves delta months, with no bound in either direction.
func (m Month) Add(delta int) Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return MonthOf(t)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// FirstWeekday is the weekday of day 1, Sunday = 0.
func (m Month) FirstWeekday() int {
	return int(time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

func (m Month) Days() int {
	return daysInMonth(m.Year, m.Month)
}

func (m Month) Date(day int) model.Date {
	return model.Date(fmt.Sprintf("%04d-%02d-%02d", m.Year, int(m.Month), day))
}

func daysInMonth(y int, m time.Month) int {
	// Day 0 of next month is last day of this month.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Pill is a one-line obligation preview inside a day cell.
type Pill struct {
	TaxName    string `json:"tax_name"`
	ClientName string `json:"client_name"`
}

func (p Pill) Label() string {
	return p.TaxName + " - " + p.ClientName
}

// DayCell is one day of the month grid. Day == 0 marks a padding cell.
type DayCell struct {
	Day         int                `json:"day"`
	Date        model.Date         `json:"date,omitempty"`
	Today       bool               `json:"today,omitempty"`
	Obligations []model.Obligation `json:"obligations,omitempty"`
}

func (c DayCell) Empty() bool { return c.Day == 0 }

// Selectable reports whether the cell opens a day detail.
func (c DayCell) Selectable() bool { return len(c.Obligations) > 0 }

func (c DayCell) Pills() []Pill {
	n := len(c.Obligations)
	if n > MaxPills {
		n = MaxPills
	}
	out := make([]Pill, 0, n)
	for _, o := range c.Obligations[:n] {
		out = append(out, Pill{TaxName: o.TaxName, ClientName: o.ClientName})
	}
	return out
}

func (c DayCell) Overflow() int {
	if len(c.Obligations) <= MaxPills {
		return 0
	}
	return len(c.Obligations) - MaxPills
}

// OverflowLabel is "+N more..." or empty when every obligation has a pill.
func (c DayCell) OverflowLabel() string {
	n := c.Overflow()
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("+%d more...", n)
}

// Grid is a rendered month: Leading padding cells followed by one cell per day.
type Grid struct {
	Month   Month     `json:"-"`
	Leading int       `json:"leading"`
	Days    []DayCell `json:"days"`
}

// BuildMonth lays out m and buckets obligations by exact due date. today is
// the caller's current local date and is independent of m.
func BuildMonth(m Month, obs []model.Obligation, today model.Date) Grid {
	byDate := make(map[model.Date][]model.Obligation)
	for _, o := range obs {
		byDate[o.DueDate] = append(byDate[o.DueDate], o)
	}

	g := Grid{Month: m, Leading: m.FirstWeekday()}
	n := m.Days()
	g.Days = make([]DayCell, 0, n)
	for day := 1; day <= n; day++ {
		d := m.Date(day)
		g.Days = append(g.Days, DayCell{
			Day:         day,
			Date:        d,
			Today:       d == today,
			Obligations: byDate[d],
		})
	}
	return g
}

// Cell returns the cell for day (1-based).
func (g Grid) Cell(day int) (DayCell, bool) {
	if day < 1 || day > len(g.Days) {
		return DayCell{}, false
	}
	return g.Days[day-1], true
}

// Weeks splits the grid into rows of seven cells, padding both ends with
// empty cells.
func (g Grid) Weeks() [][]DayCell {
	cells := make([]DayCell, 0, g.Leading+len(g.Days)+6)
	for i := 0; i < g.Leading; i++ {
		cells = append(cells, DayCell{})
	}
	cells = append(cells, g.Days...)
	for len(cells)%7 != 0 {
		cells = append(cells, DayCell{})
	}
	var weeks [][]DayCell
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

// WeekdayHeaders are the column titles, Sunday first.
var WeekdayHeaders = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
