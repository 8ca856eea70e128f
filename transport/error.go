package transport

import (
	"errors"

	F "github.com/sagernet/sing/common/format"
	M "github.com/sagernet/sing/common/metadata"
)

// DNSError reports that a target could not be resolved to an address.
type DNSError struct {
	Host  string
	Cause error
}

func (e *DNSError) Error() string {
	return F.ToString("resolve ", e.Host, ": ", e.Cause)
}

func (e *DNSError) Unwrap() error {
	return e.Cause
}

// ConnectionError reports a refused or timed out connection.
type ConnectionError struct {
	Destination M.Socksaddr
	Cause       error
}

func (e *ConnectionError) Error() string {
	return F.ToString("connect ", e.Destination, ": ", e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// IOError reports a failed write or read on an established connection.
type IOError struct {
	Destination M.Socksaddr
	Op          string
	Cause       error
}

func (e *IOError) Error() string {
	return F.ToString(e.Op, " ", e.Destination, ": ", e.Cause)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

func IsDNSError(err error) bool {
	var target *DNSError
	return errors.As(err, &target)
}

func IsConnectionError(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}

func IsIOError(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}
