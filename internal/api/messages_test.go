package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginFailureMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{&APIError{Status: 403, Code: CodeEmailNotVerified}, "Email not verified. Check your inbox for the verification mail."},
		{&APIError{Status: 403}, "Access denied."},
		{&APIError{Status: 401, Code: CodeWrongPassword}, "Wrong password."},
		{&APIError{Status: 401, Message: "invalid email or password"}, "Invalid email or password."},
		{&APIError{Status: 400, Message: "email already in use"}, "email already in use"},
		{&APIError{Status: 400}, "The request was not valid."},
		{&APIError{Status: 502}, "Something went wrong (502)."},
		{errors.New("dial tcp: refused"), "Login failed. Please try again."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LoginFailureMessage(tt.err))
	}
}
