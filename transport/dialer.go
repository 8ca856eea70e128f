package transport

import (
	"context"
	"net"
	"net/url"
	"time"

	E "github.com/sagernet/sing/common/exceptions"

	"golang.org/x/net/proxy"
)

type Dialer interface {
	DialContext(ctx context.Context, network string, address string) (net.Conn, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, network string, address string) (net.Conn, error)

func (f DialerFunc) DialContext(ctx context.Context, network string, address string) (net.Conn, error) {
	return f(ctx, network, address)
}

func NewDefaultDialer(timeout time.Duration) Dialer {
	return &net.Dialer{
		Timeout: timeout,
	}
}

// NewProxyDialer dials through a SOCKS5 proxy given as socks5://[user:pass@]host:port.
func NewProxyDialer(proxyURL string, timeout time.Duration) (Dialer, error) {
	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, E.Cause(err, "parse proxy url")
	}
	forward := &net.Dialer{
		Timeout: timeout,
	}
	proxyDialer, err := proxy.FromURL(parsedURL, forward)
	if err != nil {
		return nil, E.Cause(err, "create proxy dialer")
	}
	if contextDialer, isContextDialer := proxyDialer.(proxy.ContextDialer); isContextDialer {
		return contextDialer, nil
	}
	return DialerFunc(func(ctx context.Context, network string, address string) (net.Conn, error) {
		return proxyDialer.Dial(network, address)
	}), nil
}
