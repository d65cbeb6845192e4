package errors

import "errors"

// ErrInvertedRange start date is after end date.
var ErrInvertedRange = errors.New("start date must not be after end date")

// ErrBadDate a date string is not in YYYY-MM-DD form.
var ErrBadDate = errors.New("date must be in YYYY-MM-DD form")
