package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// envelope is the uniform response shape. Exactly one of Data and Error is
// set.
type envelope struct {
	Success   bool          `json:"success"`
	Data      any           `json:"data,omitempty"`
	Error     *errorPayload `json:"error,omitempty"`
	Timestamp string        `json:"timestamp"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
