package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// InsufficientFundsResponse adds the amounts involved in a rejected debit.
type InsufficientFundsResponse struct {
	Error     string `json:"error"`
	AccountID string `json:"accountID"`
	Required  string `json:"required"`
	Available string `json:"available"`
}

// statusForError maps a service error to an HTTP status code.
func statusForError(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrInternal):
		return http.StatusInternalServerError
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500:
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondWithError writes the mapped status for err. Client faults echo the
// error text; server faults log it and return fallbackMsg.
func respondWithError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: fallbackMsg})
		return
	}

	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	var fundsErr *apperrors.InsufficientFundsError
	if errors.As(err, &fundsErr) {
		c.JSON(status, InsufficientFundsResponse{
			Error:     fundsErr.Error(),
			AccountID: fundsErr.AccountID,
			Required:  fundsErr.Required.StringFixed(2),
			Available: fundsErr.Available.StringFixed(2),
		})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// userIDOrAbort reads the authenticated user or writes 401.
func userIDOrAbort(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return userID, ok
}

// bindJSONOrAbort binds the request body or writes 400.
func bindJSONOrAbort(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

// bindQueryOrAbort binds query parameters or writes 400.
func bindQueryOrAbort(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind query params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return false
	}
	return true
}
