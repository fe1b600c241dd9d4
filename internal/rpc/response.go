package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the uniform response wrapper. Data[i] answers the i-th queued call.
type Envelope struct {
	Status string            `json:"status"`
	Data   []json.RawMessage `json:"data"`
}

// IsOK returns true if the whole batch was fulfilled
func (e *Envelope) IsOK() bool {
	return e != nil && e.Status == StatusOK
}

// Len returns the number of result entries
func (e *Envelope) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Data)
}

// Result returns the raw result of the i-th call
func (e *Envelope) Result(i int) (json.RawMessage, bool) {
	if e == nil || i < 0 || i >= len(e.Data) {
		return nil, false
	}
	return e.Data[i], true
}

// IsEmpty reports whether the whole data section is recursively empty
func (e *Envelope) IsEmpty() bool {
	if e == nil {
		return true
	}
	for _, raw := range e.Data {
		if !EmptyJSON(raw) {
			return false
		}
	}
	return true
}

// ParseEnvelope parses a response envelope from bytes
func ParseEnvelope(data []byte) (*Envelope, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
