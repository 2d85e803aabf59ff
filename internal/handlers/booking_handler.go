package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/joshua-takyi/bashbay-events/internal/services"
)

type bookServicesRequest struct {
	Bookings []models.BookingRequest `json:"bookings"`
}

type bookingStatusRequest struct {
	Status models.BookingStatus `json:"status" binding:"required"`
}

func BookEventServices(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c)
		if !ok {
			return
		}
		eventID, ok := paramUUID(c, "id")
		if !ok {
			return
		}

		var req bookServicesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := bs.BookEventServices(c.Request.Context(), eventID, userID, req.Bookings)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.ListResponse(created, len(created)))
	}
}

func GetEventServiceBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramUUID(c, "id")
		if !ok {
			return
		}
		bookings, err := bs.GetEventServiceBookings(c.Request.Context(), eventID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(bookings, len(bookings)))
	}
}

func GetEventBookingTotal(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramUUID(c, "id")
		if !ok {
			return
		}
		total, err := bs.GetEventBookingTotal(c.Request.Context(), eventID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"event_id":   eventID,
			"total_cost": total,
		}, ""))
	}
}

func UpdateServiceBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c)
		if !ok {
			return
		}
		bookingID, ok := paramUUID(c, "id")
		if !ok {
			return
		}

		var req bookingStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if err := bs.UpdateServiceBooking(c.Request.Context(), bookingID, userID, req.Status); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Booking updated successfully"))
	}
}

func CancelServiceBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c)
		if !ok {
			return
		}
		bookingID, ok := paramUUID(c, "id")
		if !ok {
			return
		}
		if err := bs.CancelServiceBooking(c.Request.Context(), bookingID, userID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Booking cancelled"))
	}
}
