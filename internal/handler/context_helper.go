package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schoolsync/school-admin-api/internal/middleware"
	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// callerFromContext resolves the visibility scope for the request. Requests
// without a valid session read as the anonymous caller, never as an error.
func callerFromContext(c *gin.Context) scope.Caller {
	claims := claimsFromContext(c)
	if claims == nil {
		return scope.Anonymous()
	}
	return scope.Caller{ID: claims.UserID, Role: claims.Role}
}

// pageQuery reads the page number. Anything that does not parse as a
// positive integer falls back to the first page.
func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// intQuery reads an optional integer filter. An absent or empty value is
// nil; a present but malformed value is a client error, not silence.
func intQuery(c *gin.Context, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, key+" must be an integer")
	}
	return &value, nil
}

func intParam(c *gin.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+name)
	}
	return value, nil
}
