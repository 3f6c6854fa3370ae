package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a unique key (user email) is taken.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrLastAdmin is returned when a write would leave the system without an admin.
	ErrLastAdmin = errors.New("operation would remove the last admin")
)
