package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/recipe-api/internal/domain/repository"
	"github.com/oksasatya/recipe-api/pkg/helpers"
	"github.com/oksasatya/recipe-api/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth validates the access token and ensures its session is still the active one.
// The token comes from "Authorization: Bearer|Token <jwt>" or the access_token cookie.
// On success the user id is available through UserID.
// A nil session store only checks the token.
func Auth(sessions repository.SessionRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "authentication credentials were not provided", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		if sessions != nil {
			sess, err := sessions.Get(c.Request.Context(), claims.UserID)
			if err != nil || sess.SessionID != claims.SessionID {
				response.Abort(c, http.StatusUnauthorized, "session not found", nil)
				return
			}
			c.Set(CtxUserNameKey, sess.Name)
			c.Set(CtxUserEmailKey, sess.Email)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && (strings.EqualFold(scheme, "Bearer") || strings.EqualFold(scheme, "Token")) {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	tok, _ := c.Cookie(helpers.AccessCookie)
	return tok
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
