package services

import "errors"

var (
	// ErrNotFound reports an unknown group slug, username or post id.
	ErrNotFound = errors.New("record not found")
	// ErrSelfFollow reports an attempt to follow oneself.
	ErrSelfFollow = errors.New("cannot follow yourself")
)
