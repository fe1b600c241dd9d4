package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"letitbit/internal/balancer"
	"letitbit/internal/batch"
	"letitbit/internal/cache"
	"letitbit/internal/ftpupload"
	"letitbit/internal/rpc"
	"letitbit/internal/transport"
)

// Default endpoints
const (
	DefaultEndpoint = "http://api.letitbit.net/"
	DefaultPanelURL = "http://lib.wm-panel.com/wm-panel/"
)

// Config for creating a new Client
type Config struct {
	APIKey   string
	Endpoint string
	PanelURL string
	Project  string

	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	FTPTimeout     time.Duration

	// Selection picks the built-in server selection strategy; Selector overrides it
	Selection SelectionPolicy
	Selector  Selector

	// CacheSize > 0 enables caching of API introspection results
	CacheSize int
	CacheTTL  time.Duration

	FTPDialer FTPDialer
	Logger    *zerolog.Logger
}

// Client is a letitbit API client. See the package documentation for the
// concurrency contract.
type Client struct {
	apiKey         string
	panelURL       string
	project        string
	requestTimeout time.Duration

	transport *transport.HTTP
	batch     *batch.Batch
	cache     cache.Cache
	selector  balancer.Selector
	uploader  *ftpupload.Uploader
	logger    zerolog.Logger

	// mu serializes queue-and-execute cycles
	mu sync.Mutex

	stateMu  sync.RWMutex
	sessions map[Protocol]*session
	keyInfo  *KeyInfo
}

// session is the upload workflow state of one protocol
type session struct {
	stage   Stage
	auth    *AuthData
	servers []Server
}

// New creates a new Client
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.PanelURL == "" {
		cfg.PanelURL = DefaultPanelURL
	}
	if cfg.Project == "" {
		cfg.Project = DefaultProject
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = transport.DefaultRequestTimeout
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	logger = logger.With().Str("component", "client").Logger()

	selector := cfg.Selector
	if selector == nil {
		var err error
		selector, err = balancer.New(cfg.Selection)
		if err != nil {
			return nil, err
		}
	}

	var c cache.Cache = cache.NewNoopCache()
	if cfg.CacheSize > 0 {
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = time.Hour
		}
		mc, err := cache.NewMemoryCache(cfg.CacheSize, ttl)
		if err != nil {
			return nil, err
		}
		c = mc
	}

	return &Client{
		apiKey:         cfg.APIKey,
		panelURL:       cfg.PanelURL,
		project:        cfg.Project,
		requestTimeout: cfg.RequestTimeout,
		transport: transport.New(transport.Config{
			Endpoint:       cfg.Endpoint,
			ConnectTimeout: cfg.ConnectTimeout,
			RequestTimeout: cfg.RequestTimeout,
			Logger:         logger,
		}),
		batch:    batch.New(),
		cache:    c,
		selector: selector,
		uploader: ftpupload.NewUploader(cfg.FTPDialer, cfg.FTPTimeout, logger),
		logger:   logger,
		sessions: make(map[Protocol]*session),
	}, nil
}

// Close releases idle connections and the cache
func (c *Client) Close() {
	c.transport.Close()
	c.cache.Close()
}

// AddCall queues controller/method with optional params for the next Execute.
// Routes are not validated locally; unknown routes fail at execute time.
func (c *Client) AddCall(controller, method string, params Params) {
	c.batch.Add(rpc.NewCall(controller, method, params))
}

// Pending returns the number of queued calls
func (c *Client) Pending() int {
	return c.batch.Len()
}

// Execute sends all queued calls in one POST and returns the decoded envelope.
// The queue is empty afterwards whatever the outcome. The envelope status is
// not checked; Data[i] belongs to the i-th queued call.
func (c *Client) Execute(ctx context.Context) (*Envelope, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.execute(ctx)
}

// execute runs one round trip; callers hold mu
func (c *Client) execute(ctx context.Context) (*Envelope, error) {
	if c.batch.IsEmpty() {
		return nil, ErrEmptyBatch
	}
	calls := c.batch.Take()

	log := c.logger.With().
		Str("batch", xid.New().String()).
		Str("endpoint", c.transport.Endpoint()).
		Strs("routes", batch.Routes(calls)).
		Logger()

	form, err := rpc.EncodeForm(rpc.Payload{APIKey: c.apiKey, Calls: calls})
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}

	start := time.Now()
	body, err := c.transport.Post(ctx, form)
	if err != nil {
		log.Debug().Err(err).Msg("batch failed")
		return nil, &TransportError{Op: "post", Err: err}
	}

	env, err := rpc.ParseEnvelope(body)
	if err != nil {
		log.Debug().Err(err).Msg("malformed response")
		return nil, &TransportError{Op: "decode", Err: err}
	}

	log.Debug().
		Str("status", env.Status).
		Int("results", env.Len()).
		Dur("duration", time.Since(start)).
		Msg("batch executed")

	return env, nil
}

// KeyStats returns the key statistics stored by the last KeyInfo call
func (c *Client) KeyStats() (KeyInfo, bool) {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()

	if c.keyInfo == nil {
		return KeyInfo{}, false
	}
	return *c.keyInfo, true
}

// session returns the workflow state of p, creating it if needed; callers hold stateMu
func (c *Client) session(p Protocol) *session {
	s := c.sessions[p]
	if s == nil {
		s = &session{}
		c.sessions[p] = s
	}
	return s
}
