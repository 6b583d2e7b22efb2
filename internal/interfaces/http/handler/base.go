package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/infrastructure/i18n"
	"github.com/teashop/backend/internal/infrastructure/logger"
	"github.com/teashop/backend/internal/interfaces/http/dto"
	"github.com/teashop/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	tr *i18n.Translator
}

// NewBaseHandler creates the shared response helpers
func NewBaseHandler(tr *i18n.Translator) BaseHandler {
	return BaseHandler{tr: tr}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Deleted confirms a deletion
func (h *BaseHandler) Deleted(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"deleted": true}))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, h.localize(c, i18n.MsgUnauthorized, "Authentication required"))
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, err *appshared.ValidationError) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		h.localize(c, i18n.MsgValidation, "Request validation failed"),
		getRequestID(c),
		dto.ValidationDetails(err),
	))
}

// HandleError converts errors to HTTP responses. Validation failures list
// their fields, domain errors keep their code and anything else is logged
// and reported as a generic internal error.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var validationErr *appshared.ValidationError
	if errors.As(err, &validationErr) {
		h.ValidationError(c, validationErr)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		message := domainErr.Message
		if msgID := dto.GenericMessageID(domainErr.Code); msgID != "" {
			message = h.localize(c, msgID, message)
		}
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, message)
		return
	}

	logger.From(c.Request.Context()).Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	_ = c.Error(err)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, h.localize(c, i18n.MsgInternal, "An unexpected error occurred"))
}

func (h *BaseHandler) localize(c *gin.Context, msgID, fallback string) string {
	if h.tr == nil {
		return fallback
	}
	return h.tr.T(c, msgID)
}

// bindJSON decodes and validates the body into dst, answering 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.handleBindError(c, err)
		return false
	}
	return true
}

// bindQuery decodes and validates the query string into dst
func (h *BaseHandler) bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		h.handleBindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) handleBindError(c *gin.Context, err error) {
	var validationErr *appshared.ValidationError
	if errors.As(appshared.ToValidationError(err), &validationErr) {
		h.ValidationError(c, validationErr)
		return
	}
	h.BadRequest(c, "Invalid request body")
}

// actor returns the signed-in user, answering 401 when there is none
func (h *BaseHandler) actor(c *gin.Context) (appshared.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c)
	}
	return actor, ok
}

// pathID parses a uuid path parameter, answering 400 when it is malformed
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}
