package balancer

import (
	"encoding/json"
	"fmt"
)

// Policy names a server selection strategy
type Policy string

const (
	PolicyLowestLoad Policy = "lowest-load"
	PolicyRandom     Policy = "random"
	PolicyRoundRobin Policy = "round-robin"
)

// Selector picks one upload server from a list ranked by load
type Selector interface {
	// Select returns the chosen server, or false if the list is empty
	Select(servers []Server) (Server, bool)
}

// Server is an upload target together with its current load
type Server struct {
	Address string  `json:"address"`
	Load    float64 `json:"load"`
}

// UnmarshalJSON decodes a server from the wire pair ["host", load]
func (s *Server) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid server entry: %w", err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("invalid server entry: expected [address, load], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &s.Address); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}
	if err := json.Unmarshal(pair[1], &s.Load); err != nil {
		return fmt.Errorf("invalid server load: %w", err)
	}
	return nil
}

// MarshalJSON encodes the server as the wire pair ["host", load]
func (s Server) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{s.Address, s.Load})
}

func (s Server) String() string {
	return fmt.Sprintf("%s (load %g)", s.Address, s.Load)
}
