package rpc

import (
	"bytes"
	"encoding/json"
)

// Empty reports whether v is a list whose elements are all, recursively, empty.
// Anything that is not a list is considered non-empty.
func Empty(v interface{}) bool {
	list, ok := v.([]interface{})
	if !ok {
		return false
	}
	for _, item := range list {
		if !Empty(item) {
			return false
		}
	}
	return true
}

// IsNull reports whether raw is absent or JSON null
func IsNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// EmptyJSON applies Empty to a raw JSON value. Absent values and null count as empty.
func EmptyJSON(raw json.RawMessage) bool {
	if IsNull(raw) {
		return true
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return Empty(v)
}

// Truthy reports the truthiness of a result value.
// false, 0, "", null, empty lists and empty objects are false.
func Truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}

	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	default:
		return true
	}
}
