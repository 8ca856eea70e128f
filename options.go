package jarm

import (
	"time"

	"github.com/sagernet/sing-jarm/common/geoip"
	"github.com/sagernet/sing-jarm/common/random"
	C "github.com/sagernet/sing-jarm/constant"
	"github.com/sagernet/sing-jarm/fingerprint"
	"github.com/sagernet/sing-jarm/log"
	"github.com/sagernet/sing-jarm/option"
	"github.com/sagernet/sing-jarm/transport"
	E "github.com/sagernet/sing/common/exceptions"
)

type Options struct {
	option.Options
	Logger log.ContextLogger
	Source random.Source
}

// New builds a Scanner from decoded configuration.
func New(options Options) (*Scanner, error) {
	var scannerOptions []Option
	timeout := C.DefaultProbeTimeout
	if options.Scan != nil {
		if options.Scan.Timeout > 0 {
			timeout = time.Duration(options.Scan.Timeout)
		}
		scannerOptions = append(scannerOptions, WithParallel(options.Scan.Parallel))
	}
	scannerOptions = append(scannerOptions, WithTimeout(timeout))
	if options.Logger != nil {
		scannerOptions = append(scannerOptions, WithLogger(options.Logger))
	}
	if options.Source != nil {
		scannerOptions = append(scannerOptions, WithSource(options.Source))
	}
	resolver, err := newResolver(options.Resolver)
	if err != nil {
		return nil, E.Cause(err, "create resolver")
	}
	scannerOptions = append(scannerOptions, WithResolver(resolver))
	if options.Proxy != nil && options.Proxy.URL != "" {
		dialer, err := transport.NewProxyDialer(options.Proxy.URL, timeout)
		if err != nil {
			return nil, E.Cause(err, "create proxy dialer")
		}
		scannerOptions = append(scannerOptions, WithDialer(dialer))
	}
	if options.Fingerprints != nil {
		database, err := newDatabase(options.Fingerprints)
		if err != nil {
			return nil, err
		}
		scannerOptions = append(scannerOptions, WithDatabase(database))
	}
	if options.GeoIP != nil && options.GeoIP.Path != "" {
		reader, err := geoip.Open(options.GeoIP.Path)
		if err != nil {
			return nil, err
		}
		scannerOptions = append(scannerOptions, WithGeoIP(reader))
	}
	return NewScanner(scannerOptions...), nil
}

func newResolver(options *option.ResolverOptions) (transport.Resolver, error) {
	if options == nil {
		return transport.NewSystemResolver(C.DomainStrategyAsIS), nil
	}
	strategy := C.DomainStrategy(options.Strategy)
	if options.Server == "" {
		return transport.NewSystemResolver(strategy), nil
	}
	return transport.NewDNSResolver(transport.DNSResolverOptions{
		Server:   options.Server,
		Timeout:  time.Duration(options.Timeout),
		Strategy: strategy,
	})
}

func newDatabase(options *option.FingerprintOptions) (*fingerprint.Database, error) {
	var (
		database *fingerprint.Database
		err      error
	)
	if options.Path != "" {
		database, err = fingerprint.LoadDatabase(options.Path)
	} else {
		database, err = fingerprint.NewDatabase(nil)
	}
	if err != nil {
		return nil, err
	}
	err = database.Merge(options.Entries)
	if err != nil {
		return nil, E.Cause(err, "merge fingerprint entries")
	}
	return database, nil
}
