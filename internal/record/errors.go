package record

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a signed-in owner and there is none.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotReady is returned when the repository has not finished loading.
	ErrNotReady = errors.New("repository not ready")
	// ErrNotFound is returned when no record matched both the id and the owner.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidRecord wraps validation failures of caller input.
	ErrInvalidRecord = errors.New("invalid record")
)

// RemoteWriteError is a failed insert, update, delete or upsert against the remote store.
// The local view and cache are never changed when one is returned, so the call can be retried.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

// RemoteReadError is a failed bulk fetch or subscription setup.
type RemoteReadError struct {
	Op  string
	Err error
}

func (e *RemoteReadError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteReadError) Unwrap() error {
	return e.Err
}

// IsRemoteWrite reports whether err is or wraps a RemoteWriteError.
func IsRemoteWrite(err error) bool {
	var target *RemoteWriteError
	return errors.As(err, &target)
}

// IsRemoteRead reports whether err is or wraps a RemoteReadError.
func IsRemoteRead(err error) bool {
	var target *RemoteReadError
	return errors.As(err, &target)
}
