package list_class_instances

import "errors"

var (
	ErrInvalidWindow = errors.New("list_class_instances.usecase: invalid date window")
	ErrInternal      = errors.New("list_class_instances.usecase: internal error")
)
