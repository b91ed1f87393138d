package gateway

import "fmt"

// StatusError carries a non-2xx remote response. Message is taken from
// the response body when the service sent one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote service returned status %d", e.Code)
	}
	return fmt.Sprintf("remote service returned status %d: %s", e.Code, e.Message)
}

// apiError matches the error envelopes the remote service is known to
// produce; whichever field is populated wins.
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (e apiError) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Error != "":
		return e.Error
	default:
		return e.Details
	}
}
