package api

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeEmailNotVerified = "EMAIL_NOT_VERIFIED"
	CodeWrongPassword    = "WRONG_PASSWORD"
)

// LoginFailureMessage turns a Login error into something to show the user.
func LoginFailureMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "Login failed. Please try again."
	}
	switch apiErr.Status {
	case http.StatusForbidden:
		if apiErr.Code == CodeEmailNotVerified {
			return "Email not verified. Check your inbox for the verification mail."
		}
		return "Access denied."
	case http.StatusUnauthorized:
		if apiErr.Code == CodeWrongPassword {
			return "Wrong password."
		}
		return "Invalid email or password."
	case http.StatusBadRequest:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "The request was not valid."
	default:
		return fmt.Sprintf("Something went wrong (%d).", apiErr.Status)
	}
}
