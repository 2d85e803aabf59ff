package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestParseAttractions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"trims entries", "DJ, Live Band ,Photography", []string{"DJ", "Live Band", "Photography"}},
		{"drops empty pieces", "DJ,, ,Catering,", []string{"DJ", "Catering"}},
		{"empty input", "", []string{}},
		{"single entry", "  Fireworks ", []string{"Fireworks"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAttractions(tt.in))
		})
	}
}

func TestNewEvent_ForcesCreationDefaults(t *testing.T) {
	owner := uuid.New()
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	form := EventFormData{
		EventName:       "Launch Party",
		EventDate:       "2025-11-02",
		EventTime:       "19:30",
		EstimatedGuests: 120,
		Budget:          5000,
		Attractions:     "DJ, Live Band ,Photography",
		Category:        "social",
		LivestreamLink:  "https://live.example.com/launch",
	}

	ev := NewEvent(owner, "Ama Mensah", form, now)

	assert.NotEqual(t, uuid.Nil, ev.ID)
	assert.Equal(t, "Launch Party", ev.Title)
	assert.Equal(t, owner, ev.OrganizerID)
	assert.Equal(t, "Ama Mensah", ev.OrganizerName)
	assert.Equal(t, 120, ev.Capacity)
	assert.Equal(t, "https://live.example.com/launch", ev.LivestreamURL)
	assert.Equal(t, []string{"DJ", "Live Band", "Photography"}, ev.Attractions)
	assert.Equal(t, []string{}, ev.Features)

	assert.Zero(t, ev.Price)
	assert.Equal(t, CategoryBusiness, ev.Category)
	assert.Equal(t, EventUpcoming, ev.Status)
	assert.False(t, ev.IsPublished)
	assert.False(t, ev.IsVisibleInJoinTab)
	assert.True(t, ev.IsVisibleInMyEvents)
	assert.Nil(t, ev.PublishedAt)
	assert.Equal(t, now, ev.CreatedAt)
}

func TestEventUpdate_Columns(t *testing.T) {
	t.Run("nothing provided produces no column changes", func(t *testing.T) {
		assert.Empty(t, EventUpdate{}.Columns())
	})

	t.Run("empty description and organizer specification are applied", func(t *testing.T) {
		cols := EventUpdate{
			Description:            ptr(""),
			OrganizerSpecification: ptr(""),
		}.Columns()
		assert.Equal(t, map[string]interface{}{
			"description":             "",
			"organizer_specification": "",
		}, cols)
	})

	t.Run("empty strings and zero numbers elsewhere are ignored", func(t *testing.T) {
		cols := EventUpdate{
			EventName:       ptr(""),
			EventDate:       ptr(""),
			EventTime:       ptr(""),
			Location:        ptr(""),
			LivestreamLink:  ptr(""),
			EstimatedGuests: ptr(0),
			Budget:          ptr(0.0),
			Attractions:     ptr(""),
		}.Columns()
		assert.Empty(t, cols)
	})

	t.Run("form names translate to column names", func(t *testing.T) {
		cols := EventUpdate{
			EventName:       ptr("Board Games Night"),
			EventDate:       ptr("2025-12-01"),
			EventTime:       ptr("18:00"),
			Location:        ptr("Osu, Accra"),
			EstimatedGuests: ptr(40),
			Budget:          ptr(250.5),
			Attractions:     ptr("Catan, Chess"),
			Features:        []string{"parking"},
			IsLivestream:    ptr(false),
			LivestreamLink:  ptr("https://live.example.com/x"),
			Category:        ptr("workshop"),
		}.Columns()
		assert.Equal(t, map[string]interface{}{
			"title":          "Board Games Night",
			"event_date":     "2025-12-01",
			"event_time":     "18:00",
			"location":       "Osu, Accra",
			"capacity":       40,
			"price":          250.5,
			"attractions":    []string{"Catan", "Chess"},
			"features":       []string{"parking"},
			"is_livestream":  false,
			"livestream_url": "https://live.example.com/x",
			"category":       "workshop",
		}, cols)
	})

	t.Run("unknown category is ignored", func(t *testing.T) {
		assert.Empty(t, EventUpdate{Category: ptr("all")}.Columns())
		assert.Empty(t, EventUpdate{Category: ptr("rave")}.Columns())
	})
}

func TestEvent_ScheduledAt(t *testing.T) {
	accra := time.FixedZone("GMT", 0)
	tokyo := time.FixedZone("JST", 9*3600)

	tests := []struct {
		name   string
		event  Event
		loc    *time.Location
		want   time.Time
		wantOK bool
	}{
		{"date and minutes", Event{EventDate: "2025-10-01", EventTime: "18:30"}, accra,
			time.Date(2025, 10, 1, 18, 30, 0, 0, accra), true},
		{"postgres time with seconds", Event{EventDate: "2025-10-01", EventTime: "18:30:15"}, accra,
			time.Date(2025, 10, 1, 18, 30, 15, 0, accra), true},
		{"timestamp-shaped date", Event{EventDate: "2025-10-01T00:00:00", EventTime: "09:00"}, tokyo,
			time.Date(2025, 10, 1, 9, 0, 0, 0, tokyo), true},
		{"missing time runs to end of day", Event{EventDate: "2025-10-01"}, accra,
			time.Date(2025, 10, 2, 0, 0, 0, 0, accra), true},
		{"unparseable date", Event{EventDate: "next friday"}, accra, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.event.ScheduledAt(tt.loc)
			require.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}
}

func TestNewBooking_PricesAtBookingTime(t *testing.T) {
	now := time.Now()
	b := NewBooking(uuid.New(), uuid.New(), BookingRequest{
		ProviderID:   "prov-1",
		ProviderName: "Sound Masters",
		Quantity:     3,
		BasePrice:    100,
	}, now)

	assert.Equal(t, 300.0, b.TotalPrice)
	assert.Equal(t, BookingPending, b.Status)
	assert.NotEqual(t, uuid.Nil, b.ID)
}

func TestBookingStatus_Valid(t *testing.T) {
	for _, s := range []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, BookingStatus("refunded").Valid())
	assert.False(t, BookingStatus("").Valid())
}

func TestFormValidation(t *testing.T) {
	valid := EventFormData{EventName: "Meetup", EventDate: "2025-10-01"}
	require.NoError(t, Validate.Struct(valid))

	missingName := valid
	missingName.EventName = ""
	assert.Error(t, Validate.Struct(missingName))

	badDate := valid
	badDate.EventDate = "01/10/2025"
	assert.Error(t, Validate.Struct(badDate))

	negativeGuests := valid
	negativeGuests.EstimatedGuests = -1
	assert.Error(t, Validate.Struct(negativeGuests))
}
