package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorforge/internal/contentgen"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool                    `json:"success"`
	Error   string                  `json:"error"`
	Details []contentgen.FieldError `json:"details,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, successEnvelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorEnvelope{Success: false, Error: msg})
}

// respondGenerationError maps a pipeline failure to its HTTP response.
// Only request validation failures are the caller's fault.
func respondGenerationError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *contentgen.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, errorEnvelope{
			Success: false,
			Error:   "Validation error",
			Details: ve.Fields,
		})
		return
	}
	if errors.Is(err, contentgen.ErrInvariant) {
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	respondError(c, http.StatusInternalServerError, err.Error())
}
