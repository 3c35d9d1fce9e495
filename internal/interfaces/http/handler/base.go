package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libsys/acquisitions/internal/domain/shared"
	"github.com/libsys/acquisitions/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message))
}

// HandleError converts a service error to an HTTP response. An aggregated
// error list takes its status from the terminal cause; the accumulated
// processing errors travel as details.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var list *shared.ErrorList
	if errors.As(err, &list) && len(list.Errors) > 0 {
		terminal := list.Errors[len(list.Errors)-1]
		code, message := errorCodeOf(terminal)

		details := make([]dto.ErrorInfo, 0, len(list.Errors)-1)
		for _, item := range list.Errors[:len(list.Errors)-1] {
			itemCode, itemMessage := errorCodeOf(item)
			details = append(details, dto.ErrorInfo{Code: itemCode, Message: itemMessage})
		}
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithDetails(code, message, details))
		return
	}

	code, message := errorCodeOf(err)
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message))
}

// errorCodeOf extracts the domain error code of err, falling back to the
// internal code for unrecognized errors
func errorCodeOf(err error) (code, message string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, err.Error()
	}
	return dto.ErrCodeInternal, err.Error()
}
