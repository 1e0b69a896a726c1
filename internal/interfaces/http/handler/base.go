// Package handler holds the gin handlers of the registry API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/interfaces/http/dto"
	"github.com/colony/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the status derived from code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// HandleError converts err into the error envelope. Domain errors keep their
// message; anything else is reported as an internal error. err is attached to
// the gin context so the request log carries the cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.NormalizeErrorCode(domainErr.Code), domainErr.Message)
		return
	}
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// BindJSON decodes the body into req and runs binding validation. On failure
// the response is already written and false is returned.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	_ = c.Error(err)

	var validationErrs validator.ValidationErrors
	var tooLarge *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &validationErrs):
		middleware.HandleValidationError(c, err)
	case errors.As(err, &tooLarge):
		h.Error(c, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
	case errors.As(err, &typeErr):
		h.Error(c, dto.ErrCodeInvalidJSON, "Field "+typeErr.Field+" has the wrong type")
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		h.Error(c, dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
	default:
		h.BadRequest(c, "Invalid request body")
	}
	return false
}

// PathUUID parses the named path parameter. On failure the response is
// already written and false is returned.
func (h *BaseHandler) PathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
