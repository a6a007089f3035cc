package agentspace

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
)

// StatusError is a non-2xx response from the directory service. The raw
// response body is preserved for the operator.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("directory service returned %s", e.Status)
}

// Category names one class of the failure taxonomy for operator-facing
// logs. The caller decides severity; the client only classifies.
type Category string

const (
	CategoryHTTP       Category = "http"
	CategoryTimeout    Category = "timeout"
	CategoryConnection Category = "connection"
	CategoryOther      Category = "other"
)

// Categorize maps err onto the failure taxonomy: HTTP status error,
// timeout, connection error, or anything else.
func Categorize(err error) Category {
	var status *StatusError
	if errors.As(err, &status) {
		return CategoryHTTP
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return CategoryTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return CategoryConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return CategoryConnection
	}
	return CategoryOther
}
