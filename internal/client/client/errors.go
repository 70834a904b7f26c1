package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

var (
	ErrEmptyPath       = errors.New("request path is empty")
	ErrRefreshFailed   = errors.New("credential refresh failed")
	ErrMalformedTokens = errors.New("malformed credential payload")
)

// Kind classifies a Failure.
type Kind int

const (
	// KindTransport covers network, DNS, timeout, abort and request
	// construction problems. The request may never have reached the server.
	KindTransport Kind = iota + 1
	// KindParse means a response arrived but could not be decoded.
	KindParse
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// ErrorBody is the structured part of an error response, read either from
// the top level or from an "error" object.
type ErrorBody struct {
	Message string
	Code    string
}

// Failure is the only error type returned by executors and the pipeline.
type Failure struct {
	Kind Kind

	// Status is the HTTP status for KindHTTP.
	Status int

	// Body is the decoded error payload, nil when the body carried none.
	Body *ErrorBody

	// Raw is the undecoded response body for KindHTTP.
	Raw []byte

	// Err is the underlying cause for KindTransport and KindParse.
	Err error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case KindHTTP:
		if f.Body != nil && f.Body.Message != "" {
			return fmt.Sprintf("http %d: %s", f.Status, f.Body.Message)
		}
		return fmt.Sprintf("http %d: %s", f.Status, http.StatusText(f.Status))
	default:
		return fmt.Sprintf("%s error: %v", f.Kind, f.Err)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Code returns the structured error code, if any.
func (f *Failure) Code() string {
	if f.Body == nil {
		return ""
	}
	return f.Body.Code
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is an HTTP 401 failure.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	f, ok := AsFailure(err)
	if !ok || f.Kind != KindHTTP {
		return 0
	}
	return f.Status
}

func transportFailure(err error) *Failure {
	return &Failure{Kind: KindTransport, Err: err}
}

func parseFailure(err error) *Failure {
	return &Failure{Kind: KindParse, Err: err}
}

func httpFailure(status int, raw []byte) *Failure {
	return &Failure{Kind: KindHTTP, Status: status, Raw: raw, Body: parseErrorBody(raw)}
}

// parseErrorBody understands {"message","code"} and
// {"error": {"message","code"}} as well as {"error": "text"}.
// The nested code wins over a top-level one.
func parseErrorBody(raw []byte) *ErrorBody {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}

	b := &ErrorBody{
		Message: scalarString(m["message"]),
		Code:    scalarString(m["code"]),
	}

	switch nested := m["error"].(type) {
	case map[string]any:
		if c := scalarString(nested["code"]); c != "" {
			b.Code = c
		}
		if msg := scalarString(nested["message"]); msg != "" {
			b.Message = msg
		}
	case string:
		if b.Message == "" {
			b.Message = nested
		}
	}

	if b.Message == "" && b.Code == "" {
		return nil
	}
	return b
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
