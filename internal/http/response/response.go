// Package response defines the JSON envelope every handler answers with.
package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response is the common reply envelope. Data is omitted on errors, Error
// on success.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Envelope statuses.
const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// OK returns a bare success envelope.
func OK() Response {
	return Response{Status: StatusOK}
}

// OKWithData returns a success envelope with a payload.
func OKWithData(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// Error returns a failure envelope with a message.
func Error(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

// ValidationError converts validator errors into one readable message.
func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not a valid email", err.Field()))
		case "min":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "max":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "oneof":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s has an unsupported value", err.Field()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Error(strings.Join(errMsgs, ", "))
}

// AsValidationErrors unwraps err into validator errors when possible.
func AsValidationErrors(err error) (validator.ValidationErrors, bool) {
	var validateErr validator.ValidationErrors
	ok := errors.As(err, &validateErr)
	return validateErr, ok
}
