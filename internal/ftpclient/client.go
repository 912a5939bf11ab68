// Package ftpclient talks to the backup storage FTP server.
package ftpclient

import (
	"context"
	"crypto/tls"
	"io"
	"time"

	"github.com/aleister1102/checkftplog/internal/common"
	"github.com/aleister1102/checkftplog/internal/config"

	"github.com/codeGROOVE-dev/retry"
	"github.com/jlaffaye/ftp"
	"github.com/rs/zerolog"
)

const maxRetryDelay = 30 * time.Second

// remoteConn is the subset of *ftp.ServerConn a Session uses.
type remoteConn interface {
	List(path string) ([]*ftp.Entry, error)
	NameList(path string) ([]string, error)
	Open(path string) (io.ReadCloser, error)
	Quit() error
}

type serverConn struct {
	*ftp.ServerConn
}

func (c serverConn) Open(path string) (io.ReadCloser, error) {
	resp, err := c.Retr(path)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

type dialFunc func(ctx context.Context) (remoteConn, error)

// Client opens sessions against one FTP server.
type Client struct {
	cfg    config.FTPConfig
	logger zerolog.Logger
	dial   dialFunc
}

// NewClient creates a client for the server described by cfg.
func NewClient(cfg config.FTPConfig, logger zerolog.Logger) *Client {
	c := &Client{
		cfg:    cfg,
		logger: logger.With().Str("component", "FTPClient").Str("host", cfg.Host).Logger(),
	}
	c.dial = c.dialAndLogin
	return c
}

// Connect dials the server and logs in. With connect_attempts above 1 the
// pair is retried; a single attempt fails fast.
func (c *Client) Connect(ctx context.Context) (*Session, error) {
	attempts := c.cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	conn, err := retry.DoWithData(func() (remoteConn, error) {
		return c.dial(ctx)
	},
		retry.Attempts(uint(attempts)),
		retry.Delay(c.cfg.RetryDelay()),
		retry.MaxDelay(maxRetryDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn().Err(err).Uint("attempt", n+1).Int("max_attempts", attempts).Msg("FTP connect failed, retrying")
		}),
	)
	if err != nil {
		return nil, common.NewNetworkError(c.cfg.Address(), "connect/login failed", err)
	}

	c.logger.Debug().Msg("Logged in")
	return newSession(conn, c.cfg.Address(), c.logger), nil
}

func (c *Client) dialAndLogin(ctx context.Context) (remoteConn, error) {
	conn, err := ftp.Dial(c.cfg.Address(), c.dialOptions(ctx)...)
	if err != nil {
		return nil, err
	}
	if err := conn.Login(c.cfg.Username, c.cfg.Password); err != nil {
		_ = conn.Quit()
		return nil, err
	}
	return serverConn{conn}, nil
}

func (c *Client) dialOptions(ctx context.Context) []ftp.DialOption {
	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(c.cfg.Timeout()),
		ftp.DialWithDisabledEPSV(c.cfg.DisableEPSV),
	}
	if c.cfg.UseTLS {
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName:         c.cfg.Host,
			InsecureSkipVerify: c.cfg.InsecureSkipVerify,
		}))
	}
	return opts
}
