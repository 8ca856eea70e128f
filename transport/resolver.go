package transport

import (
	"context"
	"net"
	"net/netip"
	"time"

	C "github.com/sagernet/sing-jarm/constant"
	E "github.com/sagernet/sing/common/exceptions"
	M "github.com/sagernet/sing/common/metadata"
	"github.com/sagernet/sing/common/task"

	mDNS "github.com/miekg/dns"
)

type Resolver interface {
	Lookup(ctx context.Context, host string) ([]netip.Addr, error)
}

var _ Resolver = (*SystemResolver)(nil)

type SystemResolver struct {
	resolver *net.Resolver
	strategy C.DomainStrategy
}

func NewSystemResolver(strategy C.DomainStrategy) *SystemResolver {
	return &SystemResolver{
		resolver: net.DefaultResolver,
		strategy: strategy,
	}
}

func (r *SystemResolver) Lookup(ctx context.Context, host string) ([]netip.Addr, error) {
	network := "ip"
	switch r.strategy {
	case C.DomainStrategyIPv4Only:
		network = "ip4"
	case C.DomainStrategyIPv6Only:
		network = "ip6"
	}
	addresses, err := r.resolver.LookupNetIP(ctx, network, host)
	if err != nil {
		return nil, err
	}
	var response4, response6 []netip.Addr
	for _, address := range addresses {
		address = address.Unmap()
		if address.Is4() {
			response4 = append(response4, address)
		} else {
			response6 = append(response6, address)
		}
	}
	return sortAddresses(response4, response6, r.strategy), nil
}

var _ Resolver = (*DNSResolver)(nil)

// DNSResolver queries one DNS server directly.
type DNSResolver struct {
	client     *mDNS.Client
	serverAddr M.Socksaddr
	strategy   C.DomainStrategy
}

type DNSResolverOptions struct {
	Server   string
	Network  string
	Timeout  time.Duration
	Strategy C.DomainStrategy
}

func NewDNSResolver(options DNSResolverOptions) (*DNSResolver, error) {
	serverAddr := M.ParseSocksaddr(options.Server)
	if serverAddr.Port == 0 {
		serverAddr.Port = 53
	}
	if !serverAddr.IsValid() {
		return nil, E.New("invalid server address: ", options.Server)
	}
	timeout := options.Timeout
	if timeout == 0 {
		timeout = C.DefaultDNSTimeout
	}
	network := options.Network
	if network == "" {
		network = "udp"
	}
	return &DNSResolver{
		client: &mDNS.Client{
			Net:     network,
			Timeout: timeout,
		},
		serverAddr: serverAddr,
		strategy:   options.Strategy,
	}, nil
}

func (r *DNSResolver) Lookup(ctx context.Context, host string) ([]netip.Addr, error) {
	dnsName := mDNS.Fqdn(host)
	if r.strategy == C.DomainStrategyIPv4Only {
		return r.exchange(ctx, dnsName, mDNS.TypeA)
	} else if r.strategy == C.DomainStrategyIPv6Only {
		return r.exchange(ctx, dnsName, mDNS.TypeAAAA)
	}
	var response4, response6 []netip.Addr
	var group task.Group
	group.Append("exchange4", func(ctx context.Context) error {
		response, err := r.exchange(ctx, dnsName, mDNS.TypeA)
		if err != nil {
			return err
		}
		response4 = response
		return nil
	})
	group.Append("exchange6", func(ctx context.Context) error {
		response, err := r.exchange(ctx, dnsName, mDNS.TypeAAAA)
		if err != nil {
			return err
		}
		response6 = response
		return nil
	})
	err := group.Run(ctx)
	if len(response4) == 0 && len(response6) == 0 {
		return nil, err
	}
	return sortAddresses(response4, response6, r.strategy), nil
}

func (r *DNSResolver) exchange(ctx context.Context, dnsName string, queryType uint16) ([]netip.Addr, error) {
	message := new(mDNS.Msg)
	message.SetQuestion(dnsName, queryType)
	response, _, err := r.client.ExchangeContext(ctx, message, r.serverAddr.String())
	if err != nil {
		return nil, err
	}
	return MessageToAddresses(response)
}

func MessageToAddresses(response *mDNS.Msg) ([]netip.Addr, error) {
	if response.Rcode != mDNS.RcodeSuccess && response.Rcode != mDNS.RcodeNameError {
		return nil, E.New("rcode: ", mDNS.RcodeToString[response.Rcode])
	}
	addresses := make([]netip.Addr, 0, len(response.Answer))
	for _, rawAnswer := range response.Answer {
		switch answer := rawAnswer.(type) {
		case *mDNS.A:
			addresses = append(addresses, M.AddrFromIP(answer.A))
		case *mDNS.AAAA:
			addresses = append(addresses, M.AddrFromIP(answer.AAAA))
		}
	}
	return addresses, nil
}

func sortAddresses(response4 []netip.Addr, response6 []netip.Addr, strategy C.DomainStrategy) []netip.Addr {
	if strategy == C.DomainStrategyPreferIPv6 {
		return append(response6, response4...)
	} else {
		return append(response4, response6...)
	}
}
