package api

import (
	"github.com/gin-gonic/gin"

	"github.com/storelab/storefront/pkg/apierr"
)

// Envelope is the uniform response shape: {success, payload}. On
// failure the payload carries {description, details, status} and the
// HTTP status code mirrors status.
type Envelope struct {
	Success bool `json:"success"`
	Payload any  `json:"payload"`
}

func respond(c *gin.Context, status int, payload any) {
	c.JSON(status, Envelope{Success: true, Payload: payload})
}

func respondError(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	c.JSON(apiErr.Status, Envelope{Success: false, Payload: apiErr})
}
