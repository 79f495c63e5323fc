// Package apperrors maps internal failures to the messages shown to users.
package apperrors

import (
	"errors"
	"fmt"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

const (
	CodeField      = "E100"
	CodePrediction = "E300"
	CodeBusy       = "E400"
)

// PredictionFailedMessage is the only message users see for a failed prediction,
// whatever the cause.
const PredictionFailedMessage = "Error getting prediction. Please check if the API is running."

const genericMessage = "Something went wrong. Please try again."

// ErrBusy is matched by errors.Is on the error returned by NewBusyError.
var ErrBusy = errors.New("a prediction request is already in flight")

type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// NewPredictionError covers transport failures, bad statuses and unreadable
// responses alike.
func NewPredictionError(cause error) *AppError {
	msg := "prediction request failed"
	if cause != nil {
		msg = fmt.Sprintf("prediction request failed: %s", cause.Error())
	}

	return &AppError{
		Code:        CodePrediction,
		Message:     msg,
		UserMessage: PredictionFailedMessage,
		Severity:    SeverityMedium,
		cause:       cause,
	}
}

func NewFieldError(cause error) *AppError {
	var msg string
	if cause != nil {
		msg = cause.Error()
	}

	return &AppError{
		Code:        CodeField,
		Message:     msg,
		UserMessage: fmt.Sprintf("Invalid input: %s", msg),
		Severity:    SeverityLow,
		cause:       cause,
	}
}

func NewBusyError() *AppError {
	return &AppError{
		Code:        CodeBusy,
		Message:     ErrBusy.Error(),
		UserMessage: "A prediction is already in progress.",
		Severity:    SeverityLow,
		cause:       ErrBusy,
	}
}

// UserMessage returns the text to show for err.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil && appErr.UserMessage != "" {
		return appErr.UserMessage
	}
	return genericMessage
}
