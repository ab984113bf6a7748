package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/lunchmate/pkg/errors"
	"github.com/mroshb/lunchmate/pkg/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

var statusByCode = map[string]int{
	errors.ErrCodeValidation:        http.StatusBadRequest,
	errors.ErrCodeNotFound:          http.StatusNotFound,
	errors.ErrCodeRoomFull:          http.StatusConflict,
	errors.ErrCodeAlreadyJoined:     http.StatusConflict,
	errors.ErrCodeTimeout:           http.StatusRequestTimeout,
	errors.ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
}

func statusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status := statusFor(code)

	resp := ErrorResponse{Code: code, Message: err.Error()}
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		if appErr.Err != nil {
			resp.Details = appErr.Err.Error()
		}
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "path", c.FullPath(), "error", err)
		resp.Message = "internal server error"
		resp.Details = ""
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, details string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    errors.ErrCodeValidation,
		Message: "invalid request body",
		Details: details,
	})
}
