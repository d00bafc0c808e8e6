package ai

import "github.com/pkg/errors"

var (
	// ErrModelUnavailable means no model could be resolved, usually because
	// no credential is configured. Callers downgrade to offline answers.
	ErrModelUnavailable = errors.New("generative model unavailable")
	// ErrRemoteCall matches transport, timeout and service failures. The
	// underlying error stays reachable through errors.Unwrap.
	ErrRemoteCall = errors.New("remote model call failed")
	// ErrMalformedOutput means the model answered but the text did not
	// contain the requested structure.
	ErrMalformedOutput = errors.New("malformed model output")
)

type remoteError struct {
	err error
}

// RemoteError marks err as a failed model call. The result matches
// ErrRemoteCall and still unwraps to err.
func RemoteError(err error) error {
	if err == nil {
		return nil
	}
	return &remoteError{err: err}
}

func (e *remoteError) Error() string {
	return ErrRemoteCall.Error() + ": " + e.err.Error()
}

func (e *remoteError) Is(target error) bool {
	return target == ErrRemoteCall
}

func (e *remoteError) Unwrap() error {
	return e.err
}
