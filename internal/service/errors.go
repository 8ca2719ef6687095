package service

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for malformed query parameters
	ErrInvalidArgument = errors.New("invalid argument")
)
