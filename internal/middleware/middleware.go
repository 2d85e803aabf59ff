package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/helpers"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/joshua-takyi/bashbay-events/internal/store"
	"github.com/supabase-community/gotrue-go/types"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger logs one line per request
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get("request_id")

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler turns errors attached with c.Error into a JSON envelope when
// the handler did not write a response itself.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get("request_id")

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if c.Writer.Written() {
			return
		}
		// Don't return error details to clients
		c.JSON(http.StatusInternalServerError, models.ApiResponse{
			Success: false,
			Message: "Internal server error",
			Code:    "internal_error",
		})
	}
}

// SessionBackend refreshes sessions and loads the caller's profile.
type SessionBackend interface {
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

func unauthorized(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ApiResponse{
		Success: false,
		Message: "Unauthorized access",
		Error:   reason,
		Code:    "unauthorized",
	})
}

// bearerToken reads the access token from the cookie, then the Authorization header.
func bearerToken(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// AuthMiddleware validates the caller's token, refreshing it from the
// refresh_token cookie when needed, and stores the caller's claims under
// "user". The token is attached to the request context so store calls run
// as the caller.
func AuthMiddleware(validator helpers.TokenValidator, sessions SessionBackend, secureCookies bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		token := bearerToken(c)

		var claims *helpers.CustomClaims
		err := errors.New("access token not found")
		if token != "" {
			claims, err = validator.Validate(token)
		}
		if err != nil {
			refreshToken, refreshErr := c.Cookie(helpers.RefreshTokenCookie)
			if refreshErr != nil || refreshToken == "" {
				unauthorized(c, err.Error())
				return
			}

			session, refreshErr := sessions.RefreshToken(ctx, refreshToken)
			if refreshErr != nil || session == nil || session.AccessToken == "" {
				logger.WarnContext(ctx, "Token refresh failed", "error", refreshErr)
				unauthorized(c, "token expired and refresh failed")
				return
			}
			helpers.SetAuthCookies(c, session, secureCookies)
			logger.InfoContext(ctx, "Token refreshed successfully", "user_id", session.User.ID, "expires_in", session.ExpiresIn)

			token = session.AccessToken
			if claims, err = validator.Validate(token); err != nil {
				unauthorized(c, "refreshed token validation failed")
				return
			}
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			logger.WarnContext(ctx, "Invalid user ID in token", "user_id", claims.Subject, "error", err)
			unauthorized(c, "invalid subject")
			return
		}

		ctx = store.WithAccessToken(ctx, token)
		c.Request = c.Request.WithContext(ctx)

		enhanced := &helpers.EnhancedClaims{
			CustomClaims: claims,
			UserID:       userID.String(),
			Email:        claims.Email,
		}
		profile, err := sessions.GetProfile(ctx, userID)
		if err != nil {
			logger.InfoContext(ctx, "Profile not found, using default role", "user_id", userID, "error", err)
		} else {
			enhanced.Role = profile.Role
			enhanced.Username = profile.Username
			enhanced.DisplayName = profile.DisplayName()
			enhanced.AvatarURL = profile.AvatarURL
		}
		enhanced.Role = enhanced.GetSafeRole()

		c.Set("user", enhanced)
		c.Next()
	}
}
