package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolsync/school-admin-api/internal/models"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// ActionResult is the uniform outcome of every mutation endpoint. Failures
// of any category collapse into {success:false, error:true}; the typed
// error rides alongside for clients that want the detail.
type ActionResult struct {
	Success bool        `json:"success"`
	Error   bool        `json:"error"`
	Record  interface{} `json:"record,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// Action reports a mutation outcome. status is used on success; on failure
// the status comes from the normalised error.
func Action(c *gin.Context, status int, record interface{}, err error) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	if err != nil {
		appErr := appErrors.FromError(err)
		c.JSON(appErr.Status, Envelope{Data: ActionResult{Success: false, Error: true}, Error: appErr})
		return
	}
	c.JSON(status, Envelope{Data: ActionResult{Success: true, Error: false, Record: record}})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
