package model

import "errors"

var (
	// ErrNoSchedulableContent means no clause carried a usable time anchor.
	ErrNoSchedulableContent = errors.New("no schedulable content")
	// ErrInvalidRange means a duration was requested for end before start.
	ErrInvalidRange = errors.New("invalid time range")
	// ErrInsufficientInput means analysis got neither tasks nor narrative.
	ErrInsufficientInput = errors.New("insufficient input for review")
	// ErrUnknownTaskID is reported for toggles of absent ids; callers ignore it.
	ErrUnknownTaskID = errors.New("unknown task id")
)
