// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type Code string

const (
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeInvalidTransition   Code = "INVALID_TRANSITION"
	CodePreconditionFailed  Code = "PRECONDITION_FAILED"
	CodeConflictingState    Code = "CONFLICTING_STATE"
	CodeDuplicateSubmission Code = "DUPLICATE_SUBMISSION"
	CodeAlreadySent         Code = "ALREADY_SENT"
	CodeAlreadyResponded    Code = "ALREADY_RESPONDED"
	CodeNotFound            Code = "NOT_FOUND"
	CodeForbidden           Code = "FORBIDDEN"
	CodeDispatchFailed      Code = "DISPATCH_FAILED"
)

// Error is the single error type every guarded operation surfaces. Details
// carries enough context for the caller to act: the current state for
// transition errors, the original actor/timestamp for the already-done family.
type Error struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInvalidTransition, CodePreconditionFailed:
		return http.StatusUnprocessableEntity
	case CodeConflictingState, CodeDuplicateSubmission, CodeAlreadySent, CodeAlreadyResponded:
		return http.StatusConflict
	case CodeDispatchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func IsCode(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}

func Validation(message string, details map[string]interface{}) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

func InvalidTransition(entity, current, requested string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("%s cannot move from %s to %s", entity, current, requested),
		Details: map[string]interface{}{"current_status": current, "requested_status": requested},
	}
}

func PreconditionFailed(message string, details map[string]interface{}) *Error {
	return &Error{Code: CodePreconditionFailed, Message: message, Details: details}
}

func ConflictingState(message string, details map[string]interface{}) *Error {
	return &Error{Code: CodeConflictingState, Message: message, Details: details}
}

func DuplicateSubmission(message string) *Error {
	return &Error{Code: CodeDuplicateSubmission, Message: message}
}

// AlreadySent reports a delivery guard that is already set, including the
// original delivery so callers can distinguish it from a fresh send.
func AlreadySent(sentAt *time.Time, sentBy *uuid.UUID) *Error {
	details := map[string]interface{}{}
	if sentAt != nil {
		details["sent_at"] = *sentAt
	}
	if sentBy != nil {
		details["sent_by"] = *sentBy
	}
	return &Error{
		Code:    CodeAlreadySent,
		Message: "final result has already been sent",
		Details: details,
	}
}

func AlreadyResponded(response string, respondedAt *time.Time) *Error {
	details := map[string]interface{}{"response": response}
	if respondedAt != nil {
		details["responded_at"] = *respondedAt
	}
	return &Error{
		Code:    CodeAlreadyResponded,
		Message: "offer letter has already been responded to",
		Details: details,
	}
}

func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found"}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// DispatchFailed wraps a collaborator (render/email) failure. The caller may
// retry: the delivery guard is never set when dispatch fails.
func DispatchFailed(err error) *Error {
	return &Error{Code: CodeDispatchFailed, Message: "failed to dispatch notification", Err: err}
}

func Internal(err error) *Error {
	return &Error{Code: "INTERNAL_ERROR", Message: "internal error", Err: err}
}
