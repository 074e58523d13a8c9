package eligibility

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("eligibility: user not found")

	// ErrClassNotFound возвращается, когда занятие не найдено
	ErrClassNotFound = errors.New("eligibility: class not found")

	// ErrInternal возвращается при инфраструктурных ошибках
	// (недоступность таблиц пользователей/абонементов)
	ErrInternal = errors.New("eligibility: internal error")
)
