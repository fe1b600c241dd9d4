package ftpupload

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rs/zerolog"
)

// DefaultPort is used when a server address carries no port
const DefaultPort = "21"

// Conn is the subset of an FTP control connection used for uploads
type Conn interface {
	Login(user, password string) error
	Stor(path string, r io.Reader) error
	Quit() error
}

// Dialer opens an FTP connection to addr. timeout bounds the connect.
type Dialer func(ctx context.Context, addr string, timeout time.Duration) (Conn, error)

// DialFTP opens a connection using github.com/jlaffaye/ftp
func DialFTP(ctx context.Context, addr string, timeout time.Duration) (Conn, error) {
	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(timeout))
	}
	conn, err := ftp.Dial(addr, opts...)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Address appends the default FTP port when host has none
func Address(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, DefaultPort)
}

// contextReader stops a transfer once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// Uploader stores local files on FTP upload servers
type Uploader struct {
	dial    Dialer
	timeout time.Duration
	logger  zerolog.Logger
}

// NewUploader creates a new Uploader. A nil dialer uses DialFTP.
func NewUploader(dial Dialer, timeout time.Duration, logger zerolog.Logger) *Uploader {
	if dial == nil {
		dial = DialFTP
	}
	return &Uploader{
		dial:    dial,
		timeout: timeout,
		logger:  logger.With().Str("component", "ftp").Logger(),
	}
}

// Upload stores the file at path on server under its base name.
// Each upload opens and closes its own connection. Returns the stored name.
func (u *Uploader) Upload(ctx context.Context, server, login, password, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := filepath.Base(path)
	addr := Address(server)

	log := u.logger.With().Str("server", addr).Str("file", name).Logger()
	log.Debug().Msg("connecting")

	conn, err := u.dial(ctx, addr, u.timeout)
	if err != nil {
		return "", fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	if err := conn.Login(login, password); err != nil {
		conn.Quit()
		return "", fmt.Errorf("login to %s failed: %w", addr, err)
	}

	start := time.Now()
	if err := conn.Stor(name, &contextReader{ctx: ctx, r: file}); err != nil {
		conn.Quit()
		return "", fmt.Errorf("failed to store %s: %w", name, err)
	}

	if err := conn.Quit(); err != nil {
		log.Warn().Err(err).Msg("quit failed after upload")
	}

	log.Info().
		Dur("duration", time.Since(start)).
		Msg("file stored")

	return name, nil
}
