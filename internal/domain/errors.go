package domain

import "errors"

var (
	ErrRemoteUnavailable = errors.New("remote unavailable")
	ErrHandleNotFound    = errors.New("handle not found")
	ErrHandlePrivate     = errors.New("handle private or suspended")

	ErrEmptyHandle = errors.New("empty handle")
	ErrFetchFailed = errors.New("fetch failed")
	ErrNoActivity  = errors.New("no public activity found")
)
