package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// ErrMissingPayload is returned when a form carries no payload field
var ErrMissingPayload = errors.New("payload field is missing")

// Payload is the body of one POST: the API key followed by the queued calls
type Payload struct {
	APIKey string
	Calls  []Call
}

// MarshalJSON encodes the payload as [apiKey, call1, call2, ...]
func (p Payload) MarshalJSON() ([]byte, error) {
	items := make([]interface{}, 0, len(p.Calls)+1)
	items = append(items, p.APIKey)
	for _, c := range p.Calls {
		items = append(items, c)
	}
	return json.Marshal(items)
}

// UnmarshalJSON decodes a payload from [apiKey, call1, call2, ...]
func (p *Payload) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("invalid payload: api key is required")
	}

	if err := json.Unmarshal(items[0], &p.APIKey); err != nil {
		return fmt.Errorf("invalid payload api key: %w", err)
	}

	p.Calls = make([]Call, 0, len(items)-1)
	for i, raw := range items[1:] {
		var c Call
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("call[%d]: %w", i, err)
		}
		p.Calls = append(p.Calls, c)
	}
	return nil
}

// Bytes returns the payload as JSON bytes
func (p Payload) Bytes() ([]byte, error) {
	return json.Marshal(p)
}

// ParsePayload parses a payload from JSON bytes
func ParsePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// EncodeForm builds the form values for a payload
func EncodeForm(p Payload) (url.Values, error) {
	data, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	form := url.Values{}
	form.Set(FormField, string(data))
	return form, nil
}

// ParseForm extracts and parses the payload from form values
func ParseForm(form url.Values) (*Payload, error) {
	if !form.Has(FormField) {
		return nil, ErrMissingPayload
	}
	return ParsePayload([]byte(form.Get(FormField)))
}
