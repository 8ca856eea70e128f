// Package transport delivers probe packets to a target and collects the
// first bytes of its answer.
package transport

import (
	"context"
	"errors"
	"io"
	"net/netip"
	"strconv"
	"time"

	C "github.com/sagernet/sing-jarm/constant"
	E "github.com/sagernet/sing/common/exceptions"
	M "github.com/sagernet/sing/common/metadata"
)

type Options struct {
	Resolver Resolver
	Dialer   Dialer
	Timeout  time.Duration
}

type Transport struct {
	resolver Resolver
	dialer   Dialer
	timeout  time.Duration
}

func New(options Options) *Transport {
	timeout := options.Timeout
	if timeout == 0 {
		timeout = C.DefaultProbeTimeout
	}
	resolver := options.Resolver
	if resolver == nil {
		resolver = NewSystemResolver(C.DomainStrategyAsIS)
	}
	dialer := options.Dialer
	if dialer == nil {
		dialer = NewDefaultDialer(timeout)
	}
	return &Transport{
		resolver: resolver,
		dialer:   dialer,
		timeout:  timeout,
	}
}

func (t *Transport) Timeout() time.Duration {
	return t.timeout
}

// Resolve turns host and port into exactly one destination.
func (t *Transport) Resolve(ctx context.Context, host string, port string) (M.Socksaddr, error) {
	portNumber, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return M.Socksaddr{}, &DNSError{Host: host, Cause: E.Cause(err, "parse port")}
	}
	if address, err := netip.ParseAddr(host); err == nil {
		return M.SocksaddrFrom(address.Unmap(), uint16(portNumber)), nil
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	addresses, err := t.resolver.Lookup(ctx, host)
	if err != nil {
		return M.Socksaddr{}, &DNSError{Host: host, Cause: err}
	}
	if len(addresses) == 0 {
		return M.Socksaddr{}, &DNSError{Host: host, Cause: C.ErrNoAddress}
	}
	return M.SocksaddrFrom(addresses[0], uint16(portNumber)), nil
}

// Response is the fixed size receive buffer of one probe. Bytes past N are
// always zero.
type Response struct {
	Buffer [C.ResponseBufferSize]byte
	N      int
}

// Payload returns the bytes actually received.
func (r *Response) Payload() []byte {
	return r.Buffer[:r.N]
}

// Exchange sends packet to destination and reads one answer. The timeout
// bounds the connect phase and the read phase separately. A peer closing the
// connection without answering yields an empty response, not an error.
func (t *Transport) Exchange(ctx context.Context, destination M.Socksaddr, packet []byte) (*Response, error) {
	dialCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	conn, err := t.dialer.DialContext(dialCtx, "tcp", destination.String())
	if err != nil {
		return nil, &ConnectionError{Destination: destination, Cause: err}
	}
	defer conn.Close()
	err = conn.SetWriteDeadline(time.Now().Add(t.timeout))
	if err != nil {
		return nil, &IOError{Destination: destination, Op: "write", Cause: err}
	}
	_, err = conn.Write(packet)
	if err != nil {
		return nil, &IOError{Destination: destination, Op: "write", Cause: err}
	}
	err = conn.SetReadDeadline(time.Now().Add(t.timeout))
	if err != nil {
		return nil, &IOError{Destination: destination, Op: "read", Cause: err}
	}
	var response Response
	response.N, err = conn.Read(response.Buffer[:])
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &IOError{Destination: destination, Op: "read", Cause: err}
	}
	return &response, nil
}
