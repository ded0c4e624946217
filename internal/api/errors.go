package api

import "fmt"

// EmptyInputError is returned by client-side validation before any request
// is sent.
type EmptyInputError struct {
	Field string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

// NetworkError wraps a transport failure: the request never produced an
// HTTP response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response from the backend.
type HTTPError struct {
	Status int
	URL    string
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned HTTP %d: %s", e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("%s returned HTTP %d", e.URL, e.Status)
}
