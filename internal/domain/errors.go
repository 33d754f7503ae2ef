package domain

import "errors"

// ErrUserAlreadyExists is returned when trying to create a user whose
// username is already taken.
var ErrUserAlreadyExists = errors.New("user with this username already exists")

// ErrInvalidCredentials is returned when a username/password pair does not
// match a stored account.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")
