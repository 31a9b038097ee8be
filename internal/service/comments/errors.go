package comments

import "errors"

var (
	ErrInternal = errors.New("comments.service: internal error")
)
