package domain

import "errors"

var (
	// ErrEmptyMessage is returned when a send carries neither text nor image.
	ErrEmptyMessage = errors.New("text or image is required")
	// ErrSelfMessage is returned when a user tries to message themselves.
	ErrSelfMessage = errors.New("cannot send a message to yourself")
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrMessageNotFound is returned when a referenced message does not exist.
	ErrMessageNotFound = errors.New("message not found")
	// ErrEmailTaken is returned on signup with an already registered email.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingFields is returned when a required signup field is absent.
	ErrMissingFields = errors.New("please provide all the required fields")
	// ErrPasswordTooShort is returned for passwords under six characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	// ErrInvalidEmail is returned for malformed email addresses.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrStatusRegression is returned when a message status update would move
	// backward (e.g. seen -> delivered).
	ErrStatusRegression = errors.New("message status cannot move backward")
)
