package get_remaining_capacity

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_remaining_capacity: internal error")
)
