package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-api/internal/application"
	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/pkg/response"
	"github.com/oksasatya/recipe-api/pkg/validation"
)

// writeError maps application errors onto status codes. Anything unknown is
// logged and reported as 500 without details.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", verr.Fields)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"email": "user with this email already exists"})
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusBadRequest, "unable to authenticate with provided credentials", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// bindJSON decodes the body into req and writes a 400 on failure.
func bindJSON(c *gin.Context, req any, moneyField string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		details := validation.ToDetails(err)
		if moneyField != "" && errors.Is(err, entity.ErrInvalidMoney) {
			details = map[string]string{moneyField: "a valid number is required"}
		}
		response.Error[any](c, http.StatusBadRequest, "invalid payload", details)
		return false
	}
	return true
}
