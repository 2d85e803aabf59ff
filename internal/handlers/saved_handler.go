package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/joshua-takyi/bashbay-events/internal/services"
)

const sessionCookie = "session_id"

func SaveEvent(ss *services.SavedEventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c)
		if !ok {
			return
		}
		eventID, ok := paramUUID(c, "id")
		if !ok {
			return
		}
		saved, err := ss.SaveEvent(c.Request.Context(), userID, eventID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(saved, "Event saved"))
	}
}

func UnsaveEvent(ss *services.SavedEventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c)
		if !ok {
			return
		}
		eventID, ok := paramUUID(c, "id")
		if !ok {
			return
		}
		if err := ss.UnsaveEvent(c.Request.Context(), userID, eventID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Event removed from saved events"))
	}
}

func GetSavedEvents(ss *services.SavedEventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c)
		if !ok {
			return
		}
		items, err := ss.GetSavedEvents(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(items, len(items)))
	}
}

// TrackEventView records an anonymous visit keyed by a session cookie, which
// is issued on the first visit.
func TrackEventView(vs *services.EventViewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramUUID(c, "id")
		if !ok {
			return
		}

		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(sessionCookie, sessionID, 3600*24*30, "/", "", false, true)
		}

		view := &models.EventView{
			EventID:   eventID.String(),
			SessionID: sessionID,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if err := vs.TrackView(c.Request.Context(), view); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func GetEventViewStats(vs *services.EventViewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := currentUser(c); !ok {
			return
		}
		eventID, ok := paramUUID(c, "id")
		if !ok {
			return
		}
		stats, err := vs.GetStats(c.Request.Context(), eventID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(stats, ""))
	}
}
