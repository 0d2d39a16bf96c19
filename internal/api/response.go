package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool   `json:"success"`           // Whether the request succeeded
	Message string `json:"message,omitempty"` // Optional human-readable message
	Data    any    `json:"data,omitempty"`    // Payload on success
	Errors  any    `json:"errors,omitempty"`  // Field-level violations on 400
}

// StatusError is an error that already knows its HTTP status. Handlers use
// it to push expected failures through the terminal error mapper.
type StatusError struct {
	Status  int    // HTTP status to respond with
	Message string // Client-facing message
}

// Error implements the error interface
func (e *StatusError) Error() string { return e.Message }

// respondOK writes a 200 envelope with data
func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// respondCreated writes a 201 envelope with data
func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// respondError writes a failure envelope with the given status
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// respondValidation writes the 400 envelope carrying field-level violations
func respondValidation(c *gin.Context, errs any) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: "Errores de validación",
		Errors:  errs,
	})
}

// parseID reads the :id path parameter as a positive integer. On failure it
// writes the 400 envelope itself and reports false.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "ID debe ser un número entero positivo")
		return 0, false
	}
	return uint(id), true
}
