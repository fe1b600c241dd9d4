package client

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned by New when no API key is configured
	ErrMissingAPIKey = errors.New("api key is required")

	// ErrEmptyBatch is returned by Execute when no calls are queued
	ErrEmptyBatch = errors.New("no calls queued")

	// ErrNoServers is returned when no upload servers have been fetched for a protocol
	ErrNoServers = errors.New("no upload servers fetched")

	// ErrNoCredentials is returned by an FTP upload before auth data has been fetched
	ErrNoCredentials = errors.New("no upload credentials fetched")

	// ErrHTTPUploadUnsupported is returned for uploads over http, whose transfer
	// format is not known
	ErrHTTPUploadUnsupported = errors.New("file upload over http is not supported")
)

// UnknownProtocolError is returned for a transfer protocol the client does not know
type UnknownProtocolError struct {
	Protocol string
}

func (e *UnknownProtocolError) Error() string {
	return fmt.Sprintf("unknown protocol: %q", e.Protocol)
}

// ProtocolError is returned when the server answers with a status other than "OK"
type ProtocolError struct {
	Route  string
	Status string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: not successful response from server: %s", e.Route, e.Status)
}

// EmptyResultError is returned when the server reports success but sends no content
// where a result was expected
type EmptyResultError struct {
	Route string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: request not fulfilled: empty result", e.Route)
}

// TransportError wraps network, FTP and decoding failures
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is a *ProtocolError carrying status
func IsStatus(err error, status string) bool {
	var perr *ProtocolError
	return errors.As(err, &perr) && perr.Status == status
}
