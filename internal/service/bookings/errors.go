package bookings

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings.service: internal error")
)

// DefaultMaxRetries сколько раз перечитывать бронирование после проигранной гонки
const DefaultMaxRetries = 3
