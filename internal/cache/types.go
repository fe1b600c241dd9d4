package cache

// Cache defines the interface for caching raw call results
type Cache interface {
	// Get retrieves a cached result by key
	// Returns the cached data and true if found, nil and false otherwise
	Get(key string) ([]byte, bool)

	// Set stores a result in the cache with the given key
	Set(key string, value []byte)

	// Close releases any resources held by the cache
	Close()
}
