package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

const (
	msgNotJSON            = "Request must be JSON"
	msgEmailTaken         = "Email already registered"
	msgPasswordTooLong    = "field Password must be at most 72 bytes long"
	msgInvalidCredentials = "Invalid credentials"
	msgTokenMissing       = "Token is missing!"
	msgTokenExpired       = "Token has expired!"
	msgTokenInvalid       = "Invalid token!"
	msgUserNotFound       = "User not found!"
	msgTooManyRequests    = "Too many requests"
	msgInternal           = "Internal server error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Message string `json:"message"`
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Message: msg})
}

// validationMessage turns validator errors into one human-readable line.
func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email address", err.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most %s characters long", err.Field(), err.Param()))
		case "maxbytes":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most %s bytes long", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return strings.Join(msgs, ", ")
}
