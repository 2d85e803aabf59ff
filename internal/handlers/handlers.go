package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/helpers"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/joshua-takyi/bashbay-events/internal/uploader"
)

// currentUser returns the authenticated caller set by AuthMiddleware. It
// writes the error response itself when ok is false.
func currentUser(c *gin.Context) (uuid.UUID, *helpers.EnhancedClaims, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.CodedErrorResponse("unauthorized", "unauthorized"))
		return uuid.Nil, nil, false
	}
	claims, ok := userClaims.(*helpers.EnhancedClaims)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
		return uuid.Nil, nil, false
	}
	id, err := claims.ID()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
		return uuid.Nil, nil, false
	}
	return id, claims, true
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(helpers.StringTrim(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors to HTTP statuses. Unexpected errors are
// attached to the context for ErrorHandler to log.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrNoBookings):
		c.JSON(http.StatusBadRequest, models.CodedErrorResponse("invalid_request", err.Error()))
	case errors.Is(err, models.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, models.CodedErrorResponse("not_found", err.Error()))
	case errors.Is(err, uploader.ErrMissingPublicURL):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, models.CodedErrorResponse("upload_failed", err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.CodedErrorResponse("internal_error", "something went wrong"))
	}
}
