package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServiceError is a coded domain error surfaced to API callers. Codes are a
// closed set; handlers translate them to HTTP statuses via StatusForCode.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewServiceError builds a coded error with a formatted message.
func NewServiceError(code, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error codes surfaced by the scheduling & settlement core.
const (
	CodeInvalidPayload      = "INVALID_PAYLOAD"
	CodeInvalidTimezone     = "INVALID_TIMEZONE"
	CodeNotAuthenticated    = "NOT_AUTHENTICATED"
	CodeForbidden           = "FORBIDDEN"
	CodeLateCancellation    = "LATE_CANCELLATION"
	CodeBookingNotFound     = "BOOKING_NOT_FOUND"
	CodeBookingConflict     = "BOOKING_CONFLICT"
	CodeSlotUnavailable     = "SLOT_UNAVAILABLE"
	CodeBookingNotCompleted = "BOOKING_NOT_COMPLETED"
	CodeQCNotPassed         = "QC_NOT_PASSED"
	CodePaymentNotHeld      = "PAYMENT_NOT_HELD"
	CodePaymentMismatch     = "PAYMENT_MISMATCH"
	CodePaymentFailed       = "PAYMENT_FAILED"
	CodeRefundFailed        = "REFUND_FAILED"
	CodeReleaseFailed       = "RELEASE_FAILED"
	CodeMeetingFailed       = "MEETING_FAILED"
	CodeReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"
	CodeFeedbackMissing     = "FEEDBACK_MISSING"
	CodeNoPayableAccount    = "PROFESSIONAL_NO_PAYABLE_DESTINATION"
)

// ErrorCode extracts the code from a ServiceError anywhere in the chain,
// or "" for plain errors.
func ErrorCode(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// StatusForCode maps a domain error code to its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case CodeInvalidPayload, CodeInvalidTimezone:
		return http.StatusBadRequest
	case CodeNotAuthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeBookingNotFound:
		return http.StatusNotFound
	case CodeBookingConflict, CodeReviewAlreadyExists:
		return http.StatusConflict
	case CodeLateCancellation, CodeSlotUnavailable, CodeBookingNotCompleted,
		CodeQCNotPassed, CodePaymentNotHeld, CodePaymentMismatch,
		CodeFeedbackMissing, CodeNoPayableAccount:
		return http.StatusUnprocessableEntity
	case CodePaymentFailed, CodeRefundFailed, CodeReleaseFailed, CodeMeetingFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// JSONDomainError renders a ServiceError with its mapped status; other
// errors become a 500 with the message untouched.
func JSONDomainError(c *gin.Context, err error) {
	logger := GetLogger()
	var se *ServiceError
	if errors.As(err, &se) {
		logger.Warn("request rejected", zap.String("code", se.Code), zap.String("message", se.Message))
		c.JSON(StatusForCode(se.Code), ErrorResponse{Code: se.Code, Message: se.Message})
		return
	}
	logger.Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: err.Error()})
}
