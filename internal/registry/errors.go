package registry

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ErrNotFound is matched by every error reporting an empty listing.
var ErrNotFound = errors.New("not found")

// ErrPaginationRunaway is returned when the remote keeps handing out cursors
// past the page bound or repeats a cursor it already returned.
var ErrPaginationRunaway = errors.New("pagination did not terminate")

// NotFoundError reports that a listing returned no items.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RemoteError wraps a failed ECR call together with the operation that failed.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("could not %s: %s", e.Op, describe(e.Err))
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// describe prefers the service's error code and message over the SDK's
// operation-error chain, which repeats request ids and HTTP status lines.
func describe(err error) string {
	if err == nil {
		return "unknown error"
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.ErrorMessage(); msg != "" {
			return fmt.Sprintf("%s: %s", apiErr.ErrorCode(), msg)
		}
		return apiErr.ErrorCode()
	}

	return err.Error()
}
