package helpers

import (
	"github.com/gin-gonic/gin"
	"github.com/supabase-community/gotrue-go/types"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	refreshTokenMaxAge = 3600 * 24 * 30
)

// SetAuthCookies stores a fresh session as HTTP-only cookies.
func SetAuthCookies(c *gin.Context, session *types.TokenResponse, secure bool) {
	c.SetCookie(AccessTokenCookie, session.AccessToken, session.ExpiresIn, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, session.RefreshToken, refreshTokenMaxAge, "/", "", secure, true)
}

func ClearAuthCookies(c *gin.Context, secure bool) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}
