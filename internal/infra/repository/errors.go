package repository

import "errors"

var (
	ErrInvalidPostData = errors.New("invalid post data")
)
