package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrEditConflict      = errors.New("edit conflict")
	ErrUserAlreadyExists = errors.New("user already exists with this email")
	ErrDuplicateBooking  = errors.New("booking already exists for this checkout session")
	ErrDuplicateReview   = errors.New("user has already reviewed this tour")
)
