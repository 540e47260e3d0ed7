package app_error

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type statusError struct {
	error
	status int
}

func (e statusError) Unwrap() error {
	return e.error
}

func (e statusError) HTTPStatus() int {
	return e.status
}

// Validation marks a rule violation the caller can fix, e.g. picking out
// of turn. Never retried automatically.
func Validation(format string, args ...any) error {
	return statusError{fmt.Errorf(format, args...), http.StatusBadRequest}
}

// Conflict marks a write that lost against concurrent state, e.g. a golfer
// drafted in the same instant by someone else.
func Conflict(format string, args ...any) error {
	return statusError{fmt.Errorf(format, args...), http.StatusConflict}
}

func NotFound(format string, args ...any) error {
	return statusError{fmt.Errorf(format, args...), http.StatusNotFound}
}

func Forbidden(format string, args ...any) error {
	return statusError{fmt.Errorf(format, args...), http.StatusForbidden}
}

// HTTPStatus resolves the response code for an error, walking the wrap
// chain. Unknown errors are server faults.
func HTTPStatus(err error) int {
	var se statusError
	if errors.As(err, &se) {
		return se.status
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func Abort(c *gin.Context, err error) {
	c.JSON(HTTPStatus(err), gin.H{"error": err.Error()})
}

func WithHTTPStatus(c *gin.Context, err error, status int) {
	c.JSON(status, gin.H{"error": err.Error()})
}
