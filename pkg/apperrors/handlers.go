package apperrors

import (
	"flymedia_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope for every error body.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler writes AppErrors to a gin response.
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}
	if !h.Debug && appErr.HTTPCode >= 500 {
		appErr = &AppError{
			Code:     appErr.Code,
			Domain:   appErr.Domain,
			Message:  appErr.Message,
			Err:      appErr.Err,
			HTTPCode: appErr.HTTPCode,
		}
	}

	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "server error", appErr)
	}

	c.JSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// HandleError writes err with details hidden on 5xx responses.
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: gin.Mode() == gin.DebugMode}
	handler.HandleGinError(c, err)
}

// AsAppError extracts an *AppError from the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
