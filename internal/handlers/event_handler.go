package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/joshua-takyi/bashbay-events/internal/services"
)

const maxImageSize = 10 << 20

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, claims, ok := currentUser(c)
		if !ok {
			return
		}

		var form models.EventFormData
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event, err := es.CreateEvent(c.Request.Context(), userID, claims.DisplayName, form)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(event, "Event created successfully"))
	}
}

func GetMyEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c)
		if !ok {
			return
		}
		events, err := es.GetUserEvents(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(events, len(events)))
	}
}

func GetPublishedEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := es.GetPublishedEvents(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(events, len(events)))
	}
}

// GetCategories lists the category choices, "all" first.
func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.ListResponse(models.Categories, len(models.Categories)))
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c)
		if !ok {
			return
		}
		eventID, ok := paramUUID(c, "id")
		if !ok {
			return
		}

		var upd models.EventUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if err := es.UpdateEvent(c.Request.Context(), eventID, userID, upd); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Event updated successfully"))
	}
}

type eventAction func(ctx context.Context, eventID, ownerID uuid.UUID) error

// ownerAction adapts an owner-scoped event mutation into a handler.
func ownerAction(action eventAction, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c)
		if !ok {
			return
		}
		eventID, ok := paramUUID(c, "id")
		if !ok {
			return
		}
		if err := action(c.Request.Context(), eventID, userID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, message))
	}
}

func PublishEvent(es *services.EventService) gin.HandlerFunc {
	return ownerAction(es.PublishEvent, "Event published successfully")
}

func HideEventFromMyEvents(es *services.EventService) gin.HandlerFunc {
	return ownerAction(es.HideEventFromMyEvents, "Event removed from My Events")
}

func HideEventFromJoinTab(es *services.EventService) gin.HandlerFunc {
	return ownerAction(es.HideEventFromJoinTab, "Event removed from the join tab")
}

func RestoreEvent(es *services.EventService) gin.HandlerFunc {
	return ownerAction(es.RestoreEventToMyEvents, "Event restored to My Events")
}

// UploadEventImage takes a multipart "file" and stores its URL on the event,
// as the thumbnail when the "thumbnail" form value is true.
func UploadEventImage(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c)
		if !ok {
			return
		}
		eventID, ok := paramUUID(c, "id")
		if !ok {
			return
		}

		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("file is required"))
			return
		}
		if header.Size > maxImageSize {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse("image must be 10MB or smaller"))
			return
		}
		isThumbnail, _ := strconv.ParseBool(c.DefaultPostForm("thumbnail", "false"))

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("could not read file"))
			return
		}
		defer file.Close()

		ctx := c.Request.Context()
		url, err := es.UploadEventImage(ctx, eventID, file, header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			respondError(c, err)
			return
		}
		if err := es.UpdateEventImage(ctx, eventID, userID, url, isThumbnail); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"url":          url,
			"is_thumbnail": isThumbnail,
		}, "Image uploaded successfully"))
	}
}
