package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teach-assist-api/internal/middleware"
	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
)

func actorFromContext(c *gin.Context) models.Actor {
	actor, _ := middleware.ActorFromContext(c)
	return actor
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}
