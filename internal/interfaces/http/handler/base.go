package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/infrastructure/logger"
	"github.com/wardrobe/backend/internal/interfaces/http/dto"
	"github.com/wardrobe/backend/internal/interfaces/http/middleware"
)

// BaseHandler writes the response envelope shared by every handler
type BaseHandler struct{}

// requesterID returns the authenticated user, or uuid.Nil for anonymous requests
func requesterID(c *gin.Context) uuid.UUID {
	id, _ := middleware.GetJWTUserID(c)
	return id
}

func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta adds pagination meta to a list response
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error answers with the status registered for code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeNotFound, message)
}

// BindError answers a failed ShouldBind call. Validator failures list the
// offending fields; malformed JSON and type mismatches are a plain 400.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		middleware.HandleValidationError(c, err)
		return
	}
	h.BadRequest(c, "Invalid request body: "+err.Error())
}

// ParseUUIDParam reads a UUID path parameter, answering 400 when it is not one
func (h *BaseHandler) ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// AuthorizeUser lets an authenticated caller reach only its own data.
// Anonymous requests pass; they only exist when auth is disabled.
func (h *BaseHandler) AuthorizeUser(c *gin.Context, userID uuid.UUID) bool {
	if requester := requesterID(c); requester != uuid.Nil && requester != userID {
		h.Error(c, dto.ErrCodeForbidden, "Access to another user's wardrobe is forbidden")
		return false
	}
	return true
}

// UserParam parses and authorizes the :user_id path parameter
func (h *BaseHandler) UserParam(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := h.ParseUUIDParam(c, "user_id")
	if ok && !h.AuthorizeUser(c, userID) {
		return uuid.Nil, false
	}
	return userID, ok
}

// HandleError maps domain errors onto their API code. Anything else is
// logged and hidden behind a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if domainErr, ok := shared.AsDomainError(err); ok {
		h.Error(c, dto.NormalizeErrorCode(domainErr.Code), domainErr.Message)
		return
	}
	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}
