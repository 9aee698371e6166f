// Package handlers exposes the renovation services over HTTP.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "renovo/internal/errors"
	"renovo/internal/uuid"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}

// TransitionRequest optionally pins the time a transition happened at.
// Without it the server clock is used.
type TransitionRequest struct {
	At *time.Time `json:"at"`
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseOptionalBool reads a "true"/"false" query parameter. Absent means nil.
func parseOptionalBool(c *gin.Context, name string) (*bool, error) {
	switch c.Query(name) {
	case "":
		return nil, nil
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, name+" must be 'true' or 'false'")
	}
}

// bindTransition reads an optional TransitionRequest. An empty body is allowed.
func bindTransition(c *gin.Context) (*time.Time, error) {
	if c.Request.ContentLength == 0 {
		return nil, nil
	}
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return req.At, nil
}

// respondWithError records err on the context and stops the chain.
// middleware.ErrorHandler renders it.
func respondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
