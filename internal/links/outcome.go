package links

import (
	"net/http"
)

const (
	MsgInvalidVideoID = "Invalid video ID. Must be an 11-character YouTube video ID."
	MsgNoFormats      = "No suitable video formats found."
	msgFetchFailed    = "Failed to fetch download links: "
)

// Kind tags an Outcome.
type Kind int

const (
	KindOK Kind = iota
	KindInvalidRequest
	KindNotFound
	KindUpstreamFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindInvalidRequest:
		return "invalid_request"
	case KindNotFound:
		return "not_found"
	case KindUpstreamFailed:
		return "upstream_failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single invocation. Formats is set only for
// KindOK; Err is set for every other kind.
type Outcome struct {
	Kind    Kind
	Formats []MediaFormat
	Err     error
}

// ErrorBody is the JSON payload of every non-200 response.
type ErrorBody struct {
	Error string `json:"error"`
}

func ok(formats []MediaFormat) Outcome {
	return Outcome{Kind: KindOK, Formats: formats}
}

func invalid(err error) Outcome {
	return Outcome{Kind: KindInvalidRequest, Err: err}
}

func notFound() Outcome {
	return Outcome{Kind: KindNotFound, Err: errNoFormats}
}

func failed(err error) Outcome {
	return Outcome{Kind: KindUpstreamFailed, Err: err}
}

// StatusCode maps the outcome onto the HTTP status returned to the caller.
func (o Outcome) StatusCode() int {
	switch o.Kind {
	case KindOK:
		return http.StatusOK
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Payload returns the value to JSON-encode as the response body.
func (o Outcome) Payload() any {
	switch o.Kind {
	case KindOK:
		return o.Formats
	case KindInvalidRequest:
		return ErrorBody{Error: MsgInvalidVideoID}
	case KindNotFound:
		return ErrorBody{Error: MsgNoFormats}
	default:
		msg := "unknown error"
		if o.Err != nil {
			msg = o.Err.Error()
		}
		return ErrorBody{Error: msgFetchFailed + msg}
	}
}
