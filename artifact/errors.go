package artifact

import "errors"

var (
	// ErrObjectNotFound indicates the requested key does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrPutFailed indicates the store could not persist the content.
	ErrPutFailed = errors.New("artifact put failed")

	// ErrKeyExists indicates a key collision; keys are never reused.
	ErrKeyExists = errors.New("key already exists")
)
