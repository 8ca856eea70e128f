package jarm

import (
	"net"
	"net/netip"
	"strconv"
	"strings"
	"unicode/utf8"

	E "github.com/sagernet/sing/common/exceptions"

	"golang.org/x/net/idna"
)

// ParseTarget splits host, host:port, [v6]:port or a bare address.
// defaultPort applies when the target carries none. Internationalized host
// names are returned in their ASCII form, any other name as given.
func ParseTarget(target string, defaultPort string) (host string, port string, err error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", "", E.New("empty target")
	}
	if address, parseErr := netip.ParseAddr(target); parseErr == nil {
		return address.String(), defaultPort, nil
	}
	host, port, err = net.SplitHostPort(target)
	if err != nil {
		host, port = target, defaultPort
		if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
			host = host[1 : len(host)-1]
		}
	}
	portNumber, err := strconv.ParseUint(port, 10, 16)
	if err != nil || portNumber == 0 {
		return "", "", E.New("invalid port in target ", target, ": ", port)
	}
	if host == "" {
		return "", "", E.New("missing host in target ", target)
	}
	if address, parseErr := netip.ParseAddr(host); parseErr == nil {
		return address.String(), port, nil
	}
	host, err = hostASCII(host)
	if err != nil {
		return "", "", E.Cause(err, "invalid host in target ", target)
	}
	return host, port, nil
}

// hostProfile maps labels without STD3 or hyphen checks, so names like
// _acme.example.com stay scannable.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.StrictDomainName(false),
	idna.CheckHyphens(false),
)

// hostASCII keeps ASCII names byte for byte and converts the rest to their
// punycode form.
func hostASCII(host string) (string, error) {
	var unicode bool
	for i := 0; i < len(host); i++ {
		switch {
		case host[i] <= ' ' || host[i] == 0x7f:
			return "", E.New("invalid character ", strconv.QuoteRune(rune(host[i])))
		case host[i] >= utf8.RuneSelf:
			unicode = true
		}
	}
	if !unicode {
		return host, nil
	}
	return hostProfile.ToASCII(host)
}

// Target joins host and port the way ParseTarget accepts them.
func Target(host string, port string) string {
	return net.JoinHostPort(host, port)
}
