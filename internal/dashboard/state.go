package dashboard

import (
	"time"

	"vence-cli/internal/model"
)

// Token orders fetches of one resource. Only the response carrying the latest
// issued token is applied.
type Token uint64

// State owns the in-memory session data: the last obligation and client
// snapshots, the displayed calendar month and the list filters.
//
// Snapshots are replaced wholesale; there is no partial merge.
type State struct {
	Obligations []model.Obligation
	Clients     []model.Client
	Month       Month
	Criteria    Criteria

	obligationsSeq    Token
	clientsSeq        Token
	obligationsLoaded bool
	clientsLoaded     bool
}

func NewState(now time.Time) *State {
	return &State{
		Month:    MonthOf(now),
		Criteria: Criteria{Status: StatusAll, Time: TimeAll},
	}
}

// BeginObligations issues the token for a new dashboard fetch.
func (s *State) BeginObligations() Token {
	s.obligationsSeq++
	return s.obligationsSeq
}

// ApplyObligations replaces the snapshot if tok is the latest issued token.
// It reports whether the snapshot was applied.
func (s *State) ApplyObligations(tok Token, obs []model.Obligation) bool {
	if tok != s.obligationsSeq {
		return false
	}
	s.Obligations = obs
	s.obligationsLoaded = true
	return true
}

// CurrentObligations reports whether tok is still the latest dashboard fetch.
func (s *State) CurrentObligations(tok Token) bool { return tok == s.obligationsSeq }

func (s *State) BeginClients() Token {
	s.clientsSeq++
	return s.clientsSeq
}

func (s *State) ApplyClients(tok Token, clients []model.Client) bool {
	if tok != s.clientsSeq {
		return false
	}
	s.Clients = clients
	s.clientsLoaded = true
	return true
}

func (s *State) CurrentClients(tok Token) bool { return tok == s.clientsSeq }

func (s *State) Loaded() bool { return s.obligationsLoaded }

func (s *State) ClientsLoaded() bool { return s.clientsLoaded }

// Visible is the filtered list view.
func (s *State) Visible(now time.Time) []model.Obligation {
	return Filter(s.Obligations, s.Criteria, now)
}

func (s *State) Summary() Summary {
	return Summarize(s.Obligations)
}

// Calendar builds the grid for the displayed month. The grid ignores list
// filters.
func (s *State) Calendar(now time.Time) Grid {
	return BuildMonth(s.Month, s.Obligations, model.DateOf(now))
}

func (s *State) NavigateMonth(delta int) {
	s.Month = s.Month.Add(delta)
}
