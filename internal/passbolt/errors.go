package passbolt

import "fmt"

// HTTPRequestError is returned for any response with a non-2xx status.
type HTTPRequestError struct {
	Method     string
	URL        string
	StatusCode int

	// Message comes from the envelope header, if the body was an envelope.
	Message string

	// Body is the raw response body.
	Body []byte
}

func (e *HTTPRequestError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Body)
	}
	if msg == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, msg)
}
