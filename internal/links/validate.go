package links

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const watchURLTemplate = "https://www.youtube.com/watch?v=%s"

var (
	ErrMalformedBody  = errors.New("malformed request body")
	ErrInvalidVideoID = errors.New("invalid video id")
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Validate checks the id against the 11 character alphanumeric/dash/underscore
// pattern. It never touches the network.
func (r Request) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.VideoID,
			validation.Required,
			validation.Match(videoIDPattern),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidVideoID, err)
	}

	return nil
}

// WatchURL returns the canonical watch page for the request's id.
func (r Request) WatchURL() string {
	return fmt.Sprintf(watchURLTemplate, r.VideoID)
}

// DecodeRequest parses a JSON body into a Request.
func DecodeRequest(body []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	return req, nil
}
