package types

import (
	"errors"
	"fmt"
)

// ErrEmptyQuestion is returned when a follow-up question is blank. No network
// call is made in that case.
var ErrEmptyQuestion = errors.New("question is empty")

// MissingParameterError indicates the caller omitted a required field.
// Surfaced immediately, never retried.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Name)
}

// UpstreamUnavailableError indicates a provider cannot be called at all,
// typically because its credentials or configuration are unset.
type UpstreamUnavailableError struct {
	Provider string
	Reason   string
}

func (e *UpstreamUnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s provider is unavailable", e.Provider)
	}
	return fmt.Sprintf("%s provider is unavailable: %s", e.Provider, e.Reason)
}

// UpstreamError indicates the provider responded with a failure status. The
// caller may retry.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s provider returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// InvalidUpstreamResponseError indicates the provider responded successfully
// but with an unusable shape. Not retried automatically; the response is
// assumed to be stable garbage.
type InvalidUpstreamResponseError struct {
	Provider string
	Reason   string
}

func (e *InvalidUpstreamResponseError) Error() string {
	return fmt.Sprintf("%s provider returned an invalid response: %s", e.Provider, e.Reason)
}

// MalformedAnalysisResponseError indicates the text-generation provider
// returned something that is not the required structured JSON. Not retried
// silently; the caller decides whether to retry.
type MalformedAnalysisResponseError struct {
	Raw string
	Err error
}

func (e *MalformedAnalysisResponseError) Error() string {
	return fmt.Sprintf("malformed analysis response: %v", e.Err)
}

func (e *MalformedAnalysisResponseError) Unwrap() error {
	return e.Err
}
