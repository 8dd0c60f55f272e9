package service

import (
	"strings"

	"persona_fetcher/internal/domain"
)

// ParseHandle extracts a handle from a profile URL or a bare handle:
// trailing slashes are stripped and the last path segment is kept, so
// "https://www.reddit.com/user/spez/" and "u/spez" both yield "spez".
// Query strings and fragments are dropped.
func ParseHandle(input string) (string, error) {
	input = strings.TrimSpace(input)
	if i := strings.IndexAny(input, "?#"); i >= 0 {
		input = input[:i]
	}
	input = strings.TrimRight(input, "/")
	if i := strings.LastIndex(input, "/"); i >= 0 {
		input = input[i+1:]
	}
	if input == "" {
		return "", domain.ErrEmptyHandle
	}
	return input, nil
}
