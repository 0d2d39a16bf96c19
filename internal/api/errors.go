package api

import (
	"encoding/json" // Malformed body detection
	"errors"        // Error matching
	"net"           // Connection failure detection
	"net/http"      // HTTP status codes
	"syscall"       // ECONNREFUSED matching

	"github.com/gin-gonic/gin"          // Gin web framework
	"github.com/go-sql-driver/mysql"    // MySQL driver error codes
	"github.com/sirupsen/logrus"        // Logging library
	"gorm.io/gorm"                      // GORM ORM library
)

// mysqlDuplicateEntry is the server error number for unique key violations
const mysqlDuplicateEntry = 1062

// ErrorHandler is the terminal middleware: handlers push unexpected errors
// into the gin context and this maps them to a status and envelope. In
// production mode the raw error text never reaches the client.
func ErrorHandler(isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Run the chain first
		// Nothing to do when no error was recorded or a response already went out
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, message := classify(err)
		// Log the full error server-side regardless of what the client sees
		logrus.WithFields(logrus.Fields{
			"status": status,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"error":  err.Error(),
		}).Error("request failed")
		resp := Response{Success: false, Message: message}
		// Outside production the raw error helps debugging
		if !isProd && status == http.StatusInternalServerError {
			resp.Errors = []string{err.Error()}
		}
		c.JSON(status, resp)
	}
}

// classify maps a propagated error to its HTTP status and client message
func classify(err error) (int, string) {
	// Errors that already carry their status pass through
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, se.Message
	}
	// Duplicate unique key → conflict
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return http.StatusConflict, "Ya existe un registro con esa información"
	}
	// Database unreachable → service unavailable
	var ne *net.OpError
	if errors.As(err, &ne) || errors.Is(err, syscall.ECONNREFUSED) {
		return http.StatusServiceUnavailable, "Error de conexión a la base de datos"
	}
	// Malformed request body → bad request
	var js *json.SyntaxError
	if errors.As(err, &js) {
		return http.StatusBadRequest, "JSON malformado"
	}
	// Missing rows that escaped a handler's own existence check
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, "Registro no encontrado"
	}
	return http.StatusInternalServerError, "Error interno del servidor"
}

// NotFoundHandler answers every unmatched route with the 404 envelope
func NotFoundHandler(c *gin.Context) {
	respondError(c, http.StatusNotFound, "Ruta "+c.Request.URL.Path+" no encontrada")
}
