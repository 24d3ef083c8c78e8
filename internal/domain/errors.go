package domain

import "errors"

var (
	ErrUnknownWeekday       = errors.New("unknown weekday name")
	ErrInvalidHour          = errors.New("hour must be an integer in 0..23")
	ErrPostNotFound         = errors.New("post not found")
	ErrPostAlreadyScheduled = errors.New("post already has an assigned time")
	ErrClientNotFound       = errors.New("client template not found")
)
