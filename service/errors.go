package service

import "errors"

// ErrInvalidRequest rejects a submission parameter outside its accepted
// domain before any job row or dispatch message exists.
var ErrInvalidRequest = errors.New("invalid request")
