package delivery

import "errors"

var (
	ErrRequestNotFound        = errors.New("delivery request not found")
	ErrConcurrentModification = errors.New("delivery request was modified concurrently")
	ErrInvalidTransition      = errors.New("invalid delivery request status transition")
	ErrLockedForEditing       = errors.New("delivery request is locked once a driver has accepted it")
	ErrNotRequestOwner        = errors.New("delivery request belongs to another farmer")
	ErrNotAssignedDriver      = errors.New("delivery request is held by another driver")
	ErrEmptyUpdate            = errors.New("no fields to update")
	ErrUnauthorized           = errors.New("unauthorized")
)
