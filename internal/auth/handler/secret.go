package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	requestSecretCookie = "__oauth_request_secret"
	requestSecretTTL    = 5 * time.Minute
)

// The 1.0a request-token secret must survive the round trip through
// the provider. It rides in a short-lived HttpOnly cookie, the same
// way the state cookie works in a 2.0 flow.
func setRequestSecret(c *gin.Context, secret string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     requestSecretCookie,
		Value:    secret,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(requestSecretTTL.Seconds()),
	})
}

func getRequestSecret(c *gin.Context) string {
	cookie, err := c.Request.Cookie(requestSecretCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
