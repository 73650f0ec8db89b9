package service

import (
	"cmp"
	"context"
	"math"
	"slices"
	"time"

	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/domain/activity"
)

// Dashboard mastery criterion for cards not flagged as mastered.
const (
	masteryMinShown   = 5
	masteryMinPercent = 85.0

	difficultCardLimit = 6
)

// Mastery classes shown next to each set.
const (
	MasteryLow  = "low"
	MasteryMid  = "mid"
	MasteryHigh = "high"
)

// SetOverview is one set as listed on the dashboard.
type SetOverview struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	CreatedAt      time.Time   `json:"createdAt"`
	TotalCards     int         `json:"totalCards"`
	MasteredCount  int         `json:"masteredCount"`
	MasteryPercent int         `json:"masteryPercent"`
	MasteryClass   string      `json:"masteryClass"`
	NextReviewDate domain.Date `json:"nextReviewDate"`
	Due            bool        `json:"due"`
}

// Calendar is the current month laid out in Monday-first weeks.
type Calendar struct {
	Year  int             `json:"year"`
	Month time.Month      `json:"month"`
	Weeks []activity.Week `json:"weeks"`
}

// Dashboard is the home view of a user.
type Dashboard struct {
	Today    domain.Date   `json:"today"`
	Sets     []SetOverview `json:"sets"`
	DueToday []SetOverview `json:"dueToday"`
	Streak   int           `json:"streak"`
	Calendar Calendar      `json:"calendar"`
}

// PracticedSet names the set with the most learning sessions.
type PracticedSet struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Sessions int    `json:"sessions"`
}

// Profile is the activity summary of a user.
type Profile struct {
	Login         string              `json:"login"`
	TotalSets     int                 `json:"totalSets"`
	SessionsToday int                 `json:"sessionsToday"`
	WeeklyChart   []activity.ChartDay `json:"weeklyChart"`
	MostPracticed *PracticedSet       `json:"mostPracticed"`
	Streak        int                 `json:"streak"`
	Calendar      Calendar            `json:"calendar"`
}

// DifficultCard is a card the owner struggles with.
type DifficultCard struct {
	Index          int     `json:"index"`
	Prompt         string  `json:"prompt"`
	Answer         string  `json:"answer"`
	ShownCount     int     `json:"shownCount"`
	SuccessPercent float64 `json:"successPercent"`
}

// SetDetails is the detail view of one set.
type SetDetails struct {
	Set       *domain.CardSet `json:"set"`
	Overview  SetOverview     `json:"overview"`
	Difficult []DifficultCard `json:"difficult"`
}

// DashboardService builds read-only views over a user's sets.
type DashboardService struct {
	sets *SetService
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(sets *SetService) *DashboardService {
	return &DashboardService{sets: sets}
}

// Dashboard lists the owner's sets with mastery, the sets due today, the
// current streak and the calendar of the current month.
func (s *DashboardService) Dashboard(ctx context.Context, owner string) (*Dashboard, error) {
	sets, err := s.sets.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	today := s.sets.now.today()
	log := activity.FromSets(sets)

	d := &Dashboard{
		Today:    today,
		Sets:     make([]SetOverview, 0, len(sets)),
		DueToday: []SetOverview{},
		Streak:   log.Streak(today),
		Calendar: calendar(log, today),
	}
	for i := range sets {
		o := s.overview(&sets[i], today)
		d.Sets = append(d.Sets, o)
		if o.Due {
			d.DueToday = append(d.DueToday, o)
		}
	}
	return d, nil
}

// Profile summarises the owner's study activity.
func (s *DashboardService) Profile(ctx context.Context, owner string) (*Profile, error) {
	sets, err := s.sets.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	today := s.sets.now.today()
	log := activity.FromSets(sets)

	p := &Profile{
		Login:         owner,
		TotalSets:     len(sets),
		SessionsToday: log.Sessions(today),
		WeeklyChart:   log.WeeklyChart(today),
		Streak:        log.Streak(today),
		Calendar:      calendar(log, today),
	}
	if i, n := activity.MostPracticed(sets); i >= 0 {
		p.MostPracticed = &PracticedSet{ID: sets[i].ID, Name: sets[i].Name, Sessions: n}
	}
	return p, nil
}

// SetDetails returns one set with mastery and its most difficult cards.
func (s *DashboardService) SetDetails(ctx context.Context, owner, setID string) (*SetDetails, error) {
	set, err := s.sets.Get(ctx, owner, setID)
	if err != nil {
		return nil, err
	}
	return &SetDetails{
		Set:       set,
		Overview:  s.overview(set, s.sets.now.today()),
		Difficult: difficultCards(set.Cards, difficultCardLimit),
	}, nil
}

func (s *DashboardService) overview(set *domain.CardSet, today domain.Date) SetOverview {
	mastered := masteredCount(set.Cards)
	percent := masteryPercent(mastered, len(set.Cards))
	return SetOverview{
		ID:             set.ID,
		Name:           set.Name,
		CreatedAt:      set.CreatedAt,
		TotalCards:     len(set.Cards),
		MasteredCount:  mastered,
		MasteryPercent: percent,
		MasteryClass:   masteryClass(percent),
		NextReviewDate: set.NextReviewDate,
		Due:            s.sets.scheduler.IsDue(set, today),
	}
}

func calendar(log activity.Log, today domain.Date) Calendar {
	return Calendar{
		Year:  today.Year(),
		Month: today.Month(),
		Weeks: log.MonthGrid(today.Year(), today.Month(), today),
	}
}

func masteredCount(cards []domain.Card) int {
	n := 0
	for _, c := range cards {
		st := c.Statistics
		if st.Mastered || (st.ShownCount >= masteryMinShown && st.SuccessPercent >= masteryMinPercent) {
			n++
		}
	}
	return n
}

func masteryPercent(mastered, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(mastered) / float64(total) * 100))
}

func masteryClass(percent int) string {
	switch {
	case percent <= 40:
		return MasteryLow
	case percent <= 75:
		return MasteryMid
	default:
		return MasteryHigh
	}
}

// difficultCards returns up to limit shown cards ordered by success percent
// and then by times shown, lowest first. Index is 1-based.
func difficultCards(cards []domain.Card, limit int) []DifficultCard {
	out := []DifficultCard{}
	for i, c := range cards {
		if c.Statistics.ShownCount <= 0 {
			continue
		}
		out = append(out, DifficultCard{
			Index:          i + 1,
			Prompt:         c.Prompt,
			Answer:         c.Answer,
			ShownCount:     c.Statistics.ShownCount,
			SuccessPercent: c.Statistics.SuccessPercent,
		})
	}
	slices.SortStableFunc(out, func(a, b DifficultCard) int {
		return cmp.Or(
			cmp.Compare(a.SuccessPercent, b.SuccessPercent),
			cmp.Compare(a.ShownCount, b.ShownCount),
		)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
