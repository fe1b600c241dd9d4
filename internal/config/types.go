package config

import "time"

// Protocol names a file transfer protocol
type Protocol string

const (
	ProtocolFTP  Protocol = "ftp"
	ProtocolHTTP Protocol = "http"
)

// Config represents the main configuration structure
type Config struct {
	APIKey          string       `json:"apiKey"`
	Endpoint        string       `json:"endpoint"`
	PanelURL        string       `json:"panelUrl"`
	LogLevel        string       `json:"logLevel"`
	Protocol        Protocol     `json:"protocol"`
	ServerSelection string       `json:"serverSelection"`
	Project         string       `json:"project"`
	ConnectTimeout  int          `json:"connectTimeout"` // ms
	RequestTimeout  int          `json:"requestTimeout"` // ms
	FTPTimeout      int          `json:"ftpTimeout"`     // ms - FTP connect
	Cache           *CacheConfig `json:"cache,omitempty"`
}

// CacheConfig represents the introspection cache configuration
type CacheConfig struct {
	Enabled bool `json:"enabled"`
	TTL     int  `json:"ttl"`  // seconds
	Size    int  `json:"size"` // number of entries
}

// Default values
const (
	DefaultEndpoint        = "http://api.letitbit.net/"
	DefaultPanelURL        = "http://lib.wm-panel.com/wm-panel/"
	DefaultLogLevel        = "info"
	DefaultProtocol        = ProtocolFTP
	DefaultServerSelection = "lowest-load"
	DefaultProject         = "letitbit.net"
	DefaultConnectTimeout  = 10000  // ms
	DefaultRequestTimeout  = 60000  // ms
	DefaultFTPTimeout      = 300000 // ms
	DefaultCacheTTL        = 3600   // s
	DefaultCacheSize       = 128
)

// GetConnectTimeoutDuration returns connect timeout as time.Duration
func (c *Config) GetConnectTimeoutDuration() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Millisecond
}

// GetRequestTimeoutDuration returns request timeout as time.Duration
func (c *Config) GetRequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Millisecond
}

// GetFTPTimeoutDuration returns FTP timeout as time.Duration
func (c *Config) GetFTPTimeoutDuration() time.Duration {
	return time.Duration(c.FTPTimeout) * time.Millisecond
}

// IsCacheEnabled returns true if cache is configured and enabled
func (c *Config) IsCacheEnabled() bool {
	return c.Cache != nil && c.Cache.Enabled
}

// GetTTLDuration returns cache TTL as time.Duration
func (c *CacheConfig) GetTTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}
