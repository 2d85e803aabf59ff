// Package jointab decides which published events a visitor sees in the join
// tab at a given instant.
package jointab

import (
	"strings"
	"time"

	"github.com/joshua-takyi/bashbay-events/internal/models"
)

// DefaultGrace is how long after its scheduled start an event stays listed.
const DefaultGrace = time.Hour

type Criteria struct {
	Category string `form:"category" json:"category"`
	Search   string `form:"search" json:"search"`
}

type Filter struct {
	Grace    time.Duration
	Location *time.Location
}

func NewFilter(grace time.Duration, loc *time.Location) Filter {
	if grace <= 0 {
		grace = DefaultGrace
	}
	if loc == nil {
		loc = time.UTC
	}
	return Filter{Grace: grace, Location: loc}
}

// Visible keeps discoverable events whose scheduled start plus the grace
// period has not passed. Events with an unparseable date are kept.
func (f Filter) Visible(events []models.Event, now time.Time) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.IsDiscoverable() && f.withinWindow(e, now) {
			out = append(out, e)
		}
	}
	return out
}

func (f Filter) withinWindow(e models.Event, now time.Time) bool {
	at, ok := e.ScheduledAt(f.Location)
	if !ok {
		return true
	}
	return !at.Add(f.Grace).Before(now)
}

// Apply runs the time filter and then the category, search and status
// predicates. Input order is preserved.
func (f Filter) Apply(events []models.Event, c Criteria, now time.Time) []models.Event {
	visible := f.Visible(events, now)
	out := make([]models.Event, 0, len(visible))
	for _, e := range visible {
		if MatchCategory(e, c.Category) && MatchSearch(e, c.Search) && IsUpcoming(e) {
			out = append(out, e)
		}
	}
	return out
}

// MatchCategory treats "" and "all" as no filter.
func MatchCategory(e models.Event, category string) bool {
	category = strings.TrimSpace(category)
	if category == "" || models.EventCategory(category) == models.CategoryAll {
		return true
	}
	return string(e.Category) == category
}

// MatchSearch is a case-insensitive substring match over the title, the
// description and the organizer line. The organizer line is the organizer
// specification, or the organizer name when that is empty.
func MatchSearch(e models.Event, search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	organizer := e.OrganizerSpecification
	if organizer == "" {
		organizer = e.OrganizerName
	}
	for _, field := range []string{e.Title, e.Description, organizer} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func IsUpcoming(e models.Event) bool {
	return e.Status == models.EventUpcoming
}
