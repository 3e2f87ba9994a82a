package weather

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed lookup.
type ErrorKind string

const (
	KindCityNotFound        ErrorKind = "city_not_found"
	KindInvalidCredentials  ErrorKind = "invalid_credentials"
	KindProviderUnavailable ErrorKind = "provider_unavailable"
	KindUnknown             ErrorKind = "unknown_error"
)

const unexpectedMessage = "An unexpected error occurred."

var userMessages = map[ErrorKind]string{
	KindCityNotFound:        "City not found. Please enter a valid city name.",
	KindInvalidCredentials:  "API key is invalid or missing. Please add a valid OpenWeatherMap API key.",
	KindProviderUnavailable: "Failed to fetch weather data. Please try again.",
}

// FetchError is the error returned by the provider client and Service.FetchWeather.
type FetchError struct {
	Kind ErrorKind
	Err  error
}

var (
	ErrCityNotFound        = &FetchError{Kind: KindCityNotFound}
	ErrInvalidCredentials  = &FetchError{Kind: KindInvalidCredentials}
	ErrProviderUnavailable = &FetchError{Kind: KindProviderUnavailable}
	ErrUnknown             = &FetchError{Kind: KindUnknown}
)

func newFetchError(kind ErrorKind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches any FetchError of the same kind, so the package sentinels work with errors.Is.
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Message is the fixed user-facing text for the error kind.
func (e *FetchError) Message() string {
	if msg, ok := userMessages[e.Kind]; ok {
		return msg
	}
	if e.Err == nil {
		return unexpectedMessage
	}
	return unexpectedMessage + " " + e.Err.Error()
}

// KindOf classifies err. Errors that are not a FetchError are unknown.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// UserMessage returns the message shown to the user for err.
func UserMessage(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Message()
	}
	return newFetchError(KindUnknown, err).Message()
}

// asFetchError keeps classified errors as they are and wraps anything else as unknown.
func asFetchError(err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return newFetchError(KindUnknown, err)
}
