package handlers

import "fmt"

// notFoundError marks a missing referenced entity so transactional flows can
// map it to a 404 after rollback.
type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string {
	return e.msg
}

func notFoundf(format string, args ...interface{}) error {
	return &notFoundError{msg: fmt.Sprintf(format, args...)}
}
