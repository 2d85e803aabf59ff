package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/helpers"
	"github.com/joshua-takyi/bashbay-events/internal/jointab"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/joshua-takyi/bashbay-events/internal/services"
	"github.com/joshua-takyi/bashbay-events/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var ownerID = uuid.MustParse("6a1f3f8e-5b7e-4f43-9d8b-2c1d7e2b9a10")

type stubUploader struct {
	url    string
	err    error
	gotKey string
}

func (s *stubUploader) Upload(_ context.Context, key string, file io.Reader, _, _ string) (string, error) {
	s.gotKey = key
	_, _ = io.Copy(io.Discard, file)
	return s.url, s.err
}

type testEnv struct {
	db     *storetest.MemStore
	images *stubUploader
	events *services.EventService
	books  *services.BookingService
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := storetest.New()
	repo := models.SupabaseNewRepo(db)
	env := &testEnv{
		db:     db,
		images: &stubUploader{url: "https://cdn.example.com/events/cover.jpg"},
	}
	env.events = services.NewEventService(repo, repo, env.images, services.WithLogger(logger))
	env.books = services.NewBookingService(repo, services.WithLogger(logger))

	filter := jointab.NewFilter(jointab.DefaultGrace, nil)
	r := gin.New()
	r.GET("/public/join-tab", JoinTab(env.events, filter))
	r.GET("/public/events", GetPublishedEvents(env.events))

	authed := r.Group("/")
	authed.Use(func(c *gin.Context) {
		if c.GetHeader("X-Test-User") != "" {
			c.Set("user", &helpers.EnhancedClaims{
				UserID:      c.GetHeader("X-Test-User"),
				DisplayName: "Ama Mensah",
				Role:        "host",
			})
		}
		c.Next()
	})
	authed.GET("/me", Me())
	authed.POST("/events", CreateEvent(env.events))
	authed.GET("/my-events", GetMyEvents(env.events))
	authed.PATCH("/events/:id", UpdateEvent(env.events))
	authed.POST("/events/:id/publish", PublishEvent(env.events))
	authed.POST("/events/:id/hide/join-tab", HideEventFromJoinTab(env.events))
	authed.POST("/events/:id/image", UploadEventImage(env.events))
	authed.POST("/events/:id/bookings", BookEventServices(env.books))
	authed.GET("/events/:id/bookings/total", GetEventBookingTotal(env.books))
	authed.PATCH("/bookings/:id", UpdateServiceBooking(env.books))
	env.router = r
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", ownerID.String())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Total   int             `json:"total"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (env *testEnv) seedEvent(t *testing.T, e models.Event) models.Event {
	t.Helper()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OrganizerID == uuid.Nil {
		e.OrganizerID = ownerID
	}
	if e.Status == "" {
		e.Status = models.EventUpcoming
	}
	require.NoError(t, env.db.Seed(models.EventsTable, e))
	return e
}

func TestCreateEvent(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/events", models.EventFormData{
		EventName: "Rooftop Mixer",
		EventDate: "2099-11-20",
		EventTime: "18:00",
		Category:  "social",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Event
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.Equal(t, ownerID, created.OrganizerID)
	assert.Equal(t, "Ama Mensah", created.OrganizerName)
	assert.False(t, created.IsPublished)

	w = env.do(t, http.MethodGet, "/my-events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode(t, w).Total)
}

func TestCreateEvent_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/events", models.EventFormData{EventDate: "20th of November"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w).Code)
}

func TestHandlers_RequireUser(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/my-events", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlers_InvalidPathID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/events/not-a-uuid/publish", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid id", decode(t, w).Error)
}

func TestPublishThenJoinTab(t *testing.T) {
	env := newTestEnv(t)
	ev := env.seedEvent(t, models.Event{
		Title:               "Product Meetup",
		EventDate:           "2099-03-01",
		EventTime:           "19:00",
		Category:            models.CategoryNetworking,
		IsVisibleInMyEvents: true,
	})

	w := env.do(t, http.MethodGet, "/public/join-tab", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode(t, w).Total, "drafts stay off the join tab")

	w = env.do(t, http.MethodPost, "/events/"+ev.ID.String()+"/publish", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/public/join-tab", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.Event
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, ev.ID, listed[0].ID)

	w = env.do(t, http.MethodPost, "/events/"+ev.ID.String()+"/hide/join-tab", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/public/join-tab", nil)
	assert.Equal(t, 0, decode(t, w).Total)
}

func TestJoinTab_Criteria(t *testing.T) {
	env := newTestEnv(t)
	visible := models.Event{IsPublished: true, IsVisibleInJoinTab: true}

	past := visible
	past.Title, past.EventDate, past.EventTime, past.Category = "Old Gala", "2000-01-01", "18:00", models.CategorySocial
	env.seedEvent(t, past)

	social := visible
	social.Title, social.EventDate, social.Category = "Beach Party", "2099-06-01", models.CategorySocial
	env.seedEvent(t, social)

	workshop := visible
	workshop.Title, workshop.EventDate, workshop.Category = "Go Workshop", "2099-06-02", models.CategoryWorkshop
	workshop.OrganizerName = "Gophers Accra"
	env.seedEvent(t, workshop)

	cancelled := visible
	cancelled.Title, cancelled.EventDate, cancelled.Category = "Cancelled Jam", "2099-06-03", models.CategorySocial
	cancelled.Status = models.EventCancelled
	env.seedEvent(t, cancelled)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Beach Party", "Go Workshop"}},
		{"?category=all", []string{"Beach Party", "Go Workshop"}},
		{"?category=social", []string{"Beach Party"}},
		{"?search=gophers", []string{"Go Workshop"}},
		{"?category=social&search=workshop", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/public/join-tab"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var listed []models.Event
			if data := decode(t, w).Data; len(data) > 0 {
				require.NoError(t, json.Unmarshal(data, &listed))
			}
			titles := []string{}
			for _, e := range listed {
				titles = append(titles, e.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}

	w := env.do(t, http.MethodGet, "/public/events", nil)
	assert.Equal(t, 4, decode(t, w).Total, "the raw listing is not time filtered")
}

func TestUpdateEvent_OtherOwnerIsSilent(t *testing.T) {
	env := newTestEnv(t)
	ev := env.seedEvent(t, models.Event{Title: "Mine", OrganizerID: uuid.New(), EventDate: "2099-01-01"})

	title := "Hijacked"
	w := env.do(t, http.MethodPatch, "/events/"+ev.ID.String(), models.EventUpdate{EventName: &title})
	require.Equal(t, http.StatusOK, w.Code)

	rows := env.db.Rows(models.EventsTable)
	require.Len(t, rows, 1)
	assert.Equal(t, "Mine", rows[0]["title"])
}

func TestUploadEventImage(t *testing.T) {
	env := newTestEnv(t)
	ev := env.seedEvent(t, models.Event{Title: "Launch", EventDate: "2099-01-01"})

	upload := func(thumbnail string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "cover photo.jpg")
		require.NoError(t, err)
		_, _ = part.Write([]byte("jpeg"))
		require.NoError(t, mw.WriteField("thumbnail", thumbnail))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/events/"+ev.ID.String()+"/image", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("X-Test-User", ownerID.String())
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	w := upload("true")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(env.images.gotKey, "events/"+ev.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(env.images.gotKey, "-cover-photo.jpg"))
	assert.Equal(t, env.images.url, env.db.Rows(models.EventsTable)[0]["thumbnail_url"])

	env.images.err = errors.New("storage offline")
	w = upload("false")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", decode(t, w).Code)
}

func TestUploadEventImage_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/events/"+uuid.NewString()+"/image", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "file is required", decode(t, w).Error)
}

func TestBookingsAndTotal(t *testing.T) {
	env := newTestEnv(t)
	eventID := uuid.New()
	env.db.HandleRpc(models.BookingTotalProc, func(params storetest.Row) string {
		if params["p_event_id"] != eventID.String() {
			return "0"
		}
		return "1250.5"
	})

	w := env.do(t, http.MethodPost, "/events/"+eventID.String()+"/bookings", map[string]any{
		"bookings": []models.BookingRequest{
			{ProviderID: "dj-1", ProviderName: "DJ Kwame", Quantity: 2, BasePrice: 300},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, decode(t, w).Total)

	w = env.do(t, http.MethodPost, "/events/"+eventID.String()+"/bookings", map[string]any{"bookings": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/events/"+eventID.String()+"/bookings/total", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var total struct {
		EventID   uuid.UUID `json:"event_id"`
		TotalCost float64   `json:"total_cost"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &total))
	assert.Equal(t, eventID, total.EventID)
	assert.Equal(t, 1250.5, total.TotalCost)
}

func TestUpdateServiceBooking_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPatch, "/bookings/"+uuid.NewString(), map[string]string{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w).Code)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me map[string]string
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &me))
	assert.Equal(t, ownerID.String(), me["user_id"])
	assert.Equal(t, "host", me["role"])
	assert.Equal(t, "Ama Mensah", me["display_name"])
}
