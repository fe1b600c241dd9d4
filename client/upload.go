package client

import (
	"context"
	"path/filepath"

	"letitbit/internal/balancer"
	"letitbit/internal/rpc"
)

// FetchAuthData fetches the upload credentials of a protocol and stores them.
// FTP uploads need them; HTTP does not use them.
func (c *Client) FetchAuthData(ctx context.Context, p Protocol) (AuthData, error) {
	if err := p.validate(); err != nil {
		return AuthData{}, err
	}

	auth, err := strictEndpoint[AuthData](p.String(), "auth_data").call(ctx, c, nil)
	if err != nil {
		return AuthData{}, err
	}

	c.stateMu.Lock()
	s := c.session(p)
	s.auth = &auth
	s.stage = StageAuthDataFetched
	c.stateMu.Unlock()

	c.logger.Debug().Str("protocol", p.String()).Msg("auth data fetched")
	return auth, nil
}

// FetchServerList fetches the upload servers of a protocol, ranks them by
// ascending load and stores the ranking
func (c *Client) FetchServerList(ctx context.Context, p Protocol) ([]Server, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	listed, err := strictEndpoint[[]Server](p.String(), "listing").call(ctx, c, nil)
	if err != nil {
		return nil, err
	}
	servers := balancer.Ranked(listed)

	c.stateMu.Lock()
	s := c.session(p)
	s.servers = servers
	s.stage = StageServerListFetched
	c.stateMu.Unlock()

	// a new ranking restarts the rotation
	if r, ok := c.selector.(interface{ Reset() }); ok {
		r.Reset()
	}

	c.logger.Debug().
		Str("protocol", p.String()).
		Int("servers", len(servers)).
		Msg("server list fetched")

	return Servers(servers), nil
}

// Servers returns a copy of servers
func Servers(servers []Server) []Server {
	result := make([]Server, len(servers))
	copy(result, servers)
	return result
}

// RankedServers returns the stored server ranking of a protocol
func (c *Client) RankedServers(p Protocol) []Server {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()

	s := c.sessions[p]
	if s == nil {
		return nil
	}
	return Servers(s.servers)
}

// Stage reports how far the upload workflow of a protocol has progressed
func (c *Client) Stage(p Protocol) Stage {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()

	if s := c.sessions[p]; s != nil {
		return s.stage
	}
	return StageIdle
}

func (c *Client) setStage(p Protocol, stage Stage) {
	c.stateMu.Lock()
	c.session(p).stage = stage
	c.stateMu.Unlock()
}

// SelectServer picks an upload server from the stored ranking using the
// configured selection strategy
func (c *Client) SelectServer(p Protocol) (Server, error) {
	if err := p.validate(); err != nil {
		return Server{}, err
	}

	servers := c.RankedServers(p)
	server, ok := c.selector.Select(servers)
	if !ok {
		return Server{}, ErrNoServers
	}
	return server, nil
}

// UploadFile transfers the file at path to a selected server and registers it.
// Auth data (FTP) and the server list must have been fetched.
func (c *Client) UploadFile(ctx context.Context, path string, p Protocol) (UploadResult, error) {
	if err := p.validate(); err != nil {
		return UploadResult{}, err
	}
	if p == ProtocolHTTP {
		return UploadResult{}, ErrHTTPUploadUnsupported
	}

	c.stateMu.RLock()
	var auth *AuthData
	if s := c.sessions[p]; s != nil {
		auth = s.auth
	}
	c.stateMu.RUnlock()
	if auth == nil {
		return UploadResult{}, ErrNoCredentials
	}

	server, err := c.SelectServer(p)
	if err != nil {
		return UploadResult{}, err
	}

	name, err := c.uploader.Upload(ctx, server.Address, auth.Login, auth.Password, path)
	if err != nil {
		return UploadResult{}, &TransportError{Op: "ftp upload", Err: err}
	}
	c.setStage(p, StageUploaded)

	return c.NotifyProcessed(ctx, p, server.Address, name)
}

// NotifyProcessed registers a transferred file with the service and returns its link and uid
func (c *Client) NotifyProcessed(ctx context.Context, p Protocol, server, filename string) (UploadResult, error) {
	if err := p.validate(); err != nil {
		return UploadResult{}, err
	}

	ep := strictEndpoint[[]UploadResult](p.String(), "process")
	results, err := ep.call(ctx, c, rpc.Params{
		"server":   server,
		"tmpname":  filename,
		"realname": filename,
	})
	if err != nil {
		return UploadResult{}, err
	}
	if len(results) == 0 {
		return UploadResult{}, &EmptyResultError{Route: ep.route}
	}

	c.setStage(p, StageProcessed)

	c.logger.Info().
		Str("file", filename).
		Str("server", server).
		Str("uid", results[0].UID).
		Msg("file processed")

	return results[0], nil
}

// Upload runs the whole upload workflow: auth data (FTP), server list, transfer
// and processing. Any failing step aborts it; a transferred file is not removed.
func (c *Client) Upload(ctx context.Context, path string, p Protocol) (UploadResult, error) {
	if err := p.validate(); err != nil {
		return UploadResult{}, err
	}
	if p == ProtocolHTTP {
		return UploadResult{}, ErrHTTPUploadUnsupported
	}

	if _, err := c.FetchAuthData(ctx, p); err != nil {
		return UploadResult{}, err
	}
	if _, err := c.FetchServerList(ctx, p); err != nil {
		return UploadResult{}, err
	}

	c.logger.Debug().
		Str("protocol", p.String()).
		Str("file", filepath.Base(path)).
		Msg("uploading")

	return c.UploadFile(ctx, path, p)
}
