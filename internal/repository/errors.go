package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateSession is returned when trying to create a session with an existing token hash
	ErrDuplicateSession = errors.New("session with this token hash already exists")

	// ErrDuplicateSubscription is returned when trying to create a second subscription for a user
	ErrDuplicateSubscription = errors.New("subscription for this user already exists")
)
