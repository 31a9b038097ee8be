package notifications

import "errors"

var (
	ErrInternal = errors.New("notifications.service: internal error")
)
