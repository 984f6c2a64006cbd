package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	// RefreshCookiePath limits the refresh cookie to the token endpoints.
	RefreshCookiePath = "/api/users/token"
)

// CookieJar writes the token pair as HttpOnly cookies for browser clients.
type CookieJar struct {
	Domain string
	Secure bool
}

func NewCookieJar(domain string, secure bool) *CookieJar {
	return &CookieJar{Domain: domain, Secure: secure}
}

func (j *CookieJar) SetPair(c *gin.Context, access string, aexp time.Time, refresh string, rexp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, access, maxAgeFrom(aexp), "/", j.Domain, j.Secure, true)
	c.SetCookie(RefreshCookie, refresh, maxAgeFrom(rexp), RefreshCookiePath, j.Domain, j.Secure, true)
}

// RefreshToken returns the refresh cookie value, or "" when absent.
func (j *CookieJar) RefreshToken(c *gin.Context) string {
	v, err := c.Cookie(RefreshCookie)
	if err != nil {
		return ""
	}
	return v
}

func (j *CookieJar) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", j.Domain, j.Secure, true)
	c.SetCookie(RefreshCookie, "", -1, RefreshCookiePath, j.Domain, j.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	if exp.IsZero() {
		return 0
	}
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return -1
	}
	return sec
}
