package rpc

import (
	"encoding/json"
	"fmt"
)

// StatusOK is the envelope status of a fulfilled batch
const StatusOK = "OK"

// FormField is the name of the form field carrying the JSON payload
const FormField = "r"

// Params holds the named arguments of a call
type Params map[string]interface{}

// Call represents a single controller/method invocation inside a batch
type Call struct {
	Route  string
	Params Params
}

// NewCall creates a call for controller/method
func NewCall(controller, method string, params Params) Call {
	return Call{
		Route:  Route(controller, method),
		Params: params,
	}
}

// Route joins controller and method into the wire route
func Route(controller, method string) string {
	return controller + "/" + method
}

// MarshalJSON encodes the call as [route] or [route, params]
func (c Call) MarshalJSON() ([]byte, error) {
	if len(c.Params) == 0 {
		return json.Marshal([]interface{}{c.Route})
	}
	return json.Marshal([]interface{}{c.Route, c.Params})
}

// UnmarshalJSON decodes a call from [route] or [route, params]
func (c *Call) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("invalid call: %w", err)
	}
	if len(parts) == 0 || len(parts) > 2 {
		return fmt.Errorf("invalid call: expected 1 or 2 elements, got %d", len(parts))
	}

	if err := json.Unmarshal(parts[0], &c.Route); err != nil {
		return fmt.Errorf("invalid call route: %w", err)
	}

	c.Params = nil
	if len(parts) == 2 {
		if err := json.Unmarshal(parts[1], &c.Params); err != nil {
			return fmt.Errorf("invalid call params: %w", err)
		}
	}
	return nil
}
