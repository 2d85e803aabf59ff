package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/bashbay-events/internal/helpers"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/joshua-takyi/bashbay-events/internal/services"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login relays the password grant to Supabase Auth and sets session cookies.
func Login(as *services.AuthService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		session, err := as.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, models.ErrInvalidInput) {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusUnauthorized, models.CodedErrorResponse("invalid_credentials", "invalid email or password"))
			return
		}

		helpers.SetAuthCookies(c, session, secureCookies)
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"user_id":    session.User.ID,
			"email":      session.User.Email,
			"expires_in": session.ExpiresIn,
		}, "Logged in successfully"))
	}
}

// Logout clears the auth cookies.
func Logout(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		helpers.ClearAuthCookies(c, secureCookies)
		c.SetCookie(sessionCookie, "", -1, "/", "", false, true)

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}

// Me returns the caller's resolved claims.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, claims, ok := currentUser(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"user_id":      claims.UserID,
			"email":        claims.Email,
			"role":         claims.Role,
			"username":     claims.Username,
			"display_name": claims.DisplayName,
			"avatar_url":   claims.AvatarURL,
		}, ""))
	}
}
