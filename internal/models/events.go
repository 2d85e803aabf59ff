package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventCategory string

const (
	CategoryAll        EventCategory = "all"
	CategorySocial     EventCategory = "social"
	CategoryNetworking EventCategory = "networking"
	CategoryBusiness   EventCategory = "business"
	CategoryWorkshop   EventCategory = "workshop"
	CategoryConference EventCategory = "conference"
)

// Categories lists the choices offered to users, "all" first.
var Categories = []EventCategory{
	CategoryAll,
	CategorySocial,
	CategoryNetworking,
	CategoryBusiness,
	CategoryWorkshop,
	CategoryConference,
}

// Valid reports whether c is a storable category. "all" is a filter sentinel only.
func (c EventCategory) Valid() bool {
	switch c {
	case CategorySocial, CategoryNetworking, CategoryBusiness, CategoryWorkshop, CategoryConference:
		return true
	}
	return false
}

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

type Event struct {
	ID uuid.UUID `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"` // e.g., "2025-10-01"
	EventTime   string `json:"event_time"` // e.g., "18:00" or "18:00:00"
	Location    string `json:"location"`

	OrganizerID            uuid.UUID `json:"organizer_id"`
	OrganizerName          string    `json:"organizer_name"`
	OrganizerSpecification string    `json:"organizer_specification"`

	Capacity      int           `json:"capacity"`
	Price         float64       `json:"price"`
	Attractions   []string      `json:"attractions"`
	Features      []string      `json:"features"`
	IsLivestream  bool          `json:"is_livestream"`
	LivestreamURL string        `json:"livestream_url"`
	Category      EventCategory `json:"category"`
	Status        EventStatus   `json:"status"`

	// visibility flags, independently settable
	IsPublished         bool `json:"is_published"`
	IsVisibleInJoinTab  bool `json:"is_visible_in_join_tab"`
	IsVisibleInMyEvents bool `json:"is_visible_in_my_events"`

	DeletedFromMyEventsAt *time.Time `json:"deleted_from_my_events_at"`
	DeletedFromJoinTabAt  *time.Time `json:"deleted_from_join_tab_at"`

	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at"`
}

// IsDiscoverable reports whether the event may appear in the public listing.
func (e Event) IsDiscoverable() bool {
	return e.IsPublished && e.IsVisibleInJoinTab
}

// ScheduledAt combines EventDate and EventTime in loc. An event without a time
// is treated as running until the end of its date. ok is false when the date
// cannot be parsed.
func (e Event) ScheduledAt(loc *time.Location) (t time.Time, ok bool) {
	if loc == nil {
		loc = time.UTC
	}
	date := strings.TrimSpace(e.EventDate)
	if len(date) > 10 {
		date = date[:10]
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, false
	}

	clock := strings.TrimSpace(e.EventTime)
	if clock == "" {
		return day.AddDate(0, 0, 1), true
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if tod, err := time.Parse(layout, clock); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, loc), true
		}
	}
	return day.AddDate(0, 0, 1), true
}

// EventFormData is the shape submitted by the create-event form.
type EventFormData struct {
	EventName              string   `json:"eventName" validate:"required"`
	Description            string   `json:"description"`
	EventDate              string   `json:"eventDate" validate:"required,datetime=2006-01-02"`
	EventTime              string   `json:"eventTime"`
	Location               string   `json:"location"`
	OrganizerSpecification string   `json:"organizerSpecification"`
	EstimatedGuests        int      `json:"estimatedGuests" validate:"gte=0"`
	Budget                 float64  `json:"budget" validate:"gte=0"`
	Attractions            string   `json:"attractions"` // comma separated
	Features               []string `json:"features"`
	IsLivestream           bool     `json:"isLivestream"`
	LivestreamLink         string   `json:"livestreamLink"`
	Category               string   `json:"category"`
}

// NewEvent maps the form onto a storable row. Price, category, status and the
// visibility flags are fixed at creation; publishing is a separate step.
func NewEvent(ownerID uuid.UUID, ownerName string, form EventFormData, now time.Time) *Event {
	features := form.Features
	if features == nil {
		features = []string{}
	}
	return &Event{
		ID:                     uuid.New(),
		Title:                  form.EventName,
		Description:            form.Description,
		EventDate:              form.EventDate,
		EventTime:              form.EventTime,
		Location:               form.Location,
		OrganizerID:            ownerID,
		OrganizerName:          ownerName,
		OrganizerSpecification: form.OrganizerSpecification,
		Capacity:               form.EstimatedGuests,
		Price:                  0,
		Attractions:            ParseAttractions(form.Attractions),
		Features:               features,
		IsLivestream:           form.IsLivestream,
		LivestreamURL:          form.LivestreamLink,
		Category:               CategoryBusiness,
		Status:                 EventUpcoming,
		IsPublished:            false,
		IsVisibleInJoinTab:     false,
		IsVisibleInMyEvents:    true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// ParseAttractions splits a comma separated list, trimming each entry and
// dropping empty ones.
func ParseAttractions(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EventUpdate is a sparse edit. A nil field was not provided.
type EventUpdate struct {
	EventName              *string  `json:"eventName"`
	Description            *string  `json:"description"`
	EventDate              *string  `json:"eventDate"`
	EventTime              *string  `json:"eventTime"`
	Location               *string  `json:"location"`
	OrganizerSpecification *string  `json:"organizerSpecification"`
	EstimatedGuests        *int     `json:"estimatedGuests"`
	Budget                 *float64 `json:"budget"`
	Attractions            *string  `json:"attractions"`
	Features               []string `json:"features"`
	IsLivestream           *bool    `json:"isLivestream"`
	LivestreamLink         *string  `json:"livestreamLink"`
	Category               *string  `json:"category"`
}

// Columns translates the provided fields into column updates.
//
// description and organizerSpecification accept an explicit empty string;
// every other scalar field is applied only when it is non-empty or non-zero,
// so "" or 0 leaves the column unchanged.
func (u EventUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})

	setNonZero(cols, "title", u.EventName)
	setProvided(cols, "description", u.Description)
	setNonZero(cols, "event_date", u.EventDate)
	setNonZero(cols, "event_time", u.EventTime)
	setNonZero(cols, "location", u.Location)
	setProvided(cols, "organizer_specification", u.OrganizerSpecification)
	setNonZero(cols, "capacity", u.EstimatedGuests)
	setNonZero(cols, "price", u.Budget)
	setProvided(cols, "is_livestream", u.IsLivestream)
	setNonZero(cols, "livestream_url", u.LivestreamLink)

	if u.Attractions != nil && *u.Attractions != "" {
		cols["attractions"] = ParseAttractions(*u.Attractions)
	}
	if u.Features != nil {
		cols["features"] = u.Features
	}
	if u.Category != nil && EventCategory(*u.Category).Valid() {
		cols["category"] = *u.Category
	}

	return cols
}

func setProvided[T any](cols map[string]interface{}, column string, v *T) {
	if v != nil {
		cols[column] = *v
	}
}

func setNonZero[T comparable](cols map[string]interface{}, column string, v *T) {
	var zero T
	if v != nil && *v != zero {
		cols[column] = *v
	}
}
