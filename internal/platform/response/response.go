// Package response writes the JSON envelope every API operation returns.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"movie-booking-admin/backend/internal/platform/apperr"
)

// Envelope status codes. The HTTP status is always 200; the outcome lives here.
const (
	CodeOK          = 2000
	CodeCreated     = 2001
	CodeClientError = 4000
	CodeServerError = 5000
)

// CodeKey is the gin context key holding the status_code of the envelope written for the request.
const CodeKey = "envelope_status_code"

// Envelope is the response body shape: {msg, status, status_code, data?}.
// Msg is a string, or a list of validation messages.
type Envelope struct {
	Msg        any  `json:"msg"`
	Status     bool `json:"status"`
	StatusCode int  `json:"status_code"`
	Data       any  `json:"data,omitempty"`
}

// Success builds an ok envelope with the given code.
func Success(code int, msg string, data any) Envelope {
	return Envelope{Msg: msg, Status: true, StatusCode: code, Data: data}
}

// Failure builds a failed envelope with the given code.
func Failure(code int, msg any) Envelope {
	return Envelope{Msg: msg, Status: false, StatusCode: code}
}

// FromError maps err onto an envelope. Validation, not-found and auth errors carry
// their message with 4000; anything else is 5000 with the error's safe message.
func FromError(err error, fallback string) Envelope {
	e, ok := apperr.As(err)
	if !ok {
		return Failure(CodeServerError, fallback)
	}
	var msg any = e.Msg
	if len(e.Details) > 1 {
		msg = e.Details
	}
	switch e.Kind {
	case apperr.KindValidation, apperr.KindNotFound, apperr.KindAuth:
		return Failure(CodeClientError, msg)
	default:
		if e.Msg == "" {
			msg = fallback
		}
		return Failure(CodeServerError, msg)
	}
}

// Write sends env with HTTP 200.
func Write(c *gin.Context, env Envelope) {
	c.Set(CodeKey, env.StatusCode)
	c.JSON(http.StatusOK, env)
}

// OK writes a 2000 envelope.
func OK(c *gin.Context, msg string, data any) {
	Write(c, Success(CodeOK, msg, data))
}

// Created writes a 2001 envelope.
func Created(c *gin.Context, msg string, data any) {
	Write(c, Success(CodeCreated, msg, data))
}

// Fail writes the envelope for err.
func Fail(c *gin.Context, err error, fallback string) {
	Write(c, FromError(err, fallback))
}

// Abort writes env and stops the handler chain.
func Abort(c *gin.Context, status int, env Envelope) {
	c.Set(CodeKey, env.StatusCode)
	c.AbortWithStatusJSON(status, env)
}
