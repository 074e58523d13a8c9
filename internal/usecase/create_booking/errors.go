package create_booking

import "errors"

var (
	ErrClassNotFound    = errors.New("create_booking.usecase: class not found")
	ErrUserNotFound     = errors.New("create_booking.usecase: user not found")
	ErrDuplicateBooking = errors.New("create_booking.usecase: user already has an active booking for this class on this date")
	ErrClassFull        = errors.New("create_booking.usecase: class is full")
	ErrAgeRestricted    = errors.New("create_booking.usecase: user does not meet the age requirements")
	ErrNoMembership     = errors.New("create_booking.usecase: an active membership is required")
	ErrLimitExceeded    = errors.New("create_booking.usecase: monthly class limit reached")
	ErrInvalidSlot      = errors.New("create_booking.usecase: class does not occur at the requested date and time")
	ErrInvalidDate      = errors.New("create_booking.usecase: requested date is in the past")
	ErrInvalidInput     = errors.New("create_booking.usecase: invalid input")
	ErrInternal         = errors.New("create_booking.usecase: internal error")
)
