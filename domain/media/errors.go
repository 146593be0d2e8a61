package media

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform is returned when a link matches no supported platform
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrNoMedia is returned when an extraction response carries neither images nor a video URL
	ErrNoMedia = errors.New("no downloadable media in response")
)

// ResolutionError indicates the extraction API could not resolve a link:
// a transport failure, a non-success envelope code, or a malformed payload
type ResolutionError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("resolving %s: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("resolving %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// TranscodeError indicates the external transcoder failed to derive audio
type TranscodeError struct {
	Source string
	Err    error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("transcoding %s: %v", e.Source, e.Err)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

// DeliveryError indicates the chat transport rejected a send or edit
type DeliveryError struct {
	Stage string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivering %s: %v", e.Stage, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
