package balancer

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
)

// SortByLoad sorts servers ascending by load, keeping the server order for equal loads
func SortByLoad(servers []Server) {
	sort.SliceStable(servers, func(i, j int) bool {
		return servers[i].Load < servers[j].Load
	})
}

// Ranked returns a sorted copy of servers
func Ranked(servers []Server) []Server {
	result := make([]Server, len(servers))
	copy(result, servers)
	SortByLoad(result)
	return result
}

// New creates a selector for the policy. An empty policy means lowest-load.
func New(policy Policy) (Selector, error) {
	switch policy {
	case "", PolicyLowestLoad:
		return NewLowestLoad(), nil
	case PolicyRandom:
		return NewRandom(nil), nil
	case PolicyRoundRobin:
		return NewRoundRobin(), nil
	default:
		return nil, fmt.Errorf("unknown server selection policy: %s", policy)
	}
}

// LowestLoad always picks the most idle server
type LowestLoad struct{}

// NewLowestLoad creates a new LowestLoad selector
func NewLowestLoad() *LowestLoad {
	return &LowestLoad{}
}

// Select returns the server with the smallest load
func (l *LowestLoad) Select(servers []Server) (Server, bool) {
	if len(servers) == 0 {
		return Server{}, false
	}

	best := servers[0]
	for _, s := range servers[1:] {
		if s.Load < best.Load {
			best = s
		}
	}
	return best, true
}

// Random picks uniformly among the available servers
type Random struct {
	rnd *rand.Rand
	mu  sync.Mutex
}

// NewRandom creates a new Random selector. A nil source uses a randomly seeded one.
func NewRandom(src rand.Source) *Random {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Random{
		rnd: rand.New(src),
	}
}

// Select returns a uniformly chosen server
func (r *Random) Select(servers []Server) (Server, bool) {
	if len(servers) == 0 {
		return Server{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return servers[r.rnd.IntN(len(servers))], true
}

// RoundRobin rotates through the servers in ranked order
type RoundRobin struct {
	mu    sync.Mutex
	index int
}

// NewRoundRobin creates a new round-robin selector
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{
		index: -1,
	}
}

// Select returns the next server
func (rr *RoundRobin) Select(servers []Server) (Server, bool) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if len(servers) == 0 {
		return Server{}, false
	}

	rr.index = (rr.index + 1) % len(servers)
	return servers[rr.index], true
}

// Reset resets the rotation
func (rr *RoundRobin) Reset() {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.index = -1
}
