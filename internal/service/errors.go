package service

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict error")
	ErrNotFound     = errors.New("error not found")
	ErrDeleteFailed = errors.New("delete failed")
)
