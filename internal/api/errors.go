package api

import (
	"errors"
	"fmt"
)

var (
	ErrInternalServer = errors.New("internal server error")
	ErrOverloaded     = errors.New("server is busy, try again later")
)

type ErrBadRequest struct {
	Fields map[string]string
}

func (e ErrBadRequest) Error() string {
	return fmt.Sprintf("missing/invalid params: %v", e.Fields)
}
