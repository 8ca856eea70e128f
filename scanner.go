// Package jarm runs active TLS fingerprint scans.
package jarm

import (
	"context"
	"time"

	"github.com/sagernet/sing-jarm/clienthello"
	"github.com/sagernet/sing-jarm/common/geoip"
	"github.com/sagernet/sing-jarm/common/random"
	C "github.com/sagernet/sing-jarm/constant"
	"github.com/sagernet/sing-jarm/fingerprint"
	"github.com/sagernet/sing-jarm/log"
	"github.com/sagernet/sing-jarm/probe"
	"github.com/sagernet/sing-jarm/serverhello"
	"github.com/sagernet/sing-jarm/transport"
	E "github.com/sagernet/sing/common/exceptions"
	F "github.com/sagernet/sing/common/format"
	"github.com/sagernet/sing/common/json/badoption"
	M "github.com/sagernet/sing/common/metadata"
	"github.com/sagernet/sing/common/task"

	"github.com/gofrs/uuid/v5"
)

type Scanner struct {
	timeout  time.Duration
	source   random.Source
	resolver transport.Resolver
	dialer   transport.Dialer
	parallel bool
	logger   log.ContextLogger
	database *fingerprint.Database
	geoIP    *geoip.Reader

	transport *transport.Transport
}

type Option func(*Scanner)

func WithTimeout(timeout time.Duration) Option {
	return func(s *Scanner) {
		s.timeout = timeout
	}
}

func WithSource(source random.Source) Option {
	return func(s *Scanner) {
		s.source = source
	}
}

func WithResolver(resolver transport.Resolver) Option {
	return func(s *Scanner) {
		s.resolver = resolver
	}
}

func WithDialer(dialer transport.Dialer) Option {
	return func(s *Scanner) {
		s.dialer = dialer
	}
}

// WithParallel sends the ten probes over concurrent connections.
func WithParallel(parallel bool) Option {
	return func(s *Scanner) {
		s.parallel = parallel
	}
}

func WithLogger(logger log.ContextLogger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

func WithDatabase(database *fingerprint.Database) Option {
	return func(s *Scanner) {
		s.database = database
	}
}

func WithGeoIP(reader *geoip.Reader) Option {
	return func(s *Scanner) {
		s.geoIP = reader
	}
}

func NewScanner(options ...Option) *Scanner {
	s := &Scanner{
		timeout: C.DefaultProbeTimeout,
		source:  random.NewSecure(),
		logger:  log.NewNOPFactory().Logger(),
	}
	for _, option := range options {
		option(s)
	}
	s.transport = transport.New(transport.Options{
		Resolver: s.resolver,
		Dialer:   s.dialer,
		Timeout:  s.timeout,
	})
	return s
}

// Scan fingerprints host:port. Any transport failure aborts the scan and is
// returned as one of the transport error types; decode problems only turn
// the affected probe into an empty result.
func (s *Scanner) Scan(ctx context.Context, host string, port string) (*Result, error) {
	ctx = log.ContextWithNewID(ctx)
	startedAt := time.Now()
	destination, err := s.transport.Resolve(ctx, host, port)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "scan ", host, " at ", destination)
	catalog := probe.Catalog(host, port)
	var results [C.ProbeCount]serverhello.Result
	if s.parallel {
		err = s.probeParallel(ctx, destination, catalog, &results)
	} else {
		err = s.probeSequential(ctx, destination, catalog, &results)
	}
	if err != nil {
		return nil, err
	}
	hash := fingerprint.Assemble(results[:])
	result := &Result{
		ID:          uuid.Must(uuid.NewV4()),
		Host:        host,
		Port:        port,
		Address:     destination.String(),
		Fingerprint: hash,
		Raw:         results[:],
		Country:     s.geoIP.Lookup(destination.Addr),
		ScannedAt:   startedAt,
		Duration:    badoption.Duration(time.Since(startedAt)),
	}
	if match, loaded := s.database.Identify(hash); loaded {
		result.Match = &match
	}
	s.logger.InfoContext(ctx, "fingerprint ", host, " ", hash, " in ", F.Seconds(time.Since(startedAt).Seconds()), "s")
	return result, nil
}

func (s *Scanner) probeSequential(ctx context.Context, destination M.Socksaddr, catalog [C.ProbeCount]probe.Specification, results *[C.ProbeCount]serverhello.Result) error {
	for index, specification := range catalog {
		result, err := s.probe(ctx, index, specification, destination)
		if err != nil {
			return err
		}
		results[index] = result
	}
	return nil
}

// probeParallel waits for every probe and reports the failure of the lowest
// catalog index, so the returned error does not depend on scheduling.
func (s *Scanner) probeParallel(ctx context.Context, destination M.Socksaddr, catalog [C.ProbeCount]probe.Specification, results *[C.ProbeCount]serverhello.Result) error {
	var probeErrors [C.ProbeCount]error
	var group task.Group
	for index := range catalog {
		specification := catalog[index]
		group.Append(specification.Name, func(ctx context.Context) error {
			results[index], probeErrors[index] = s.probe(ctx, index, specification, destination)
			return nil
		})
	}
	err := group.Run(ctx)
	for _, probeErr := range probeErrors {
		if probeErr != nil {
			return probeErr
		}
	}
	return err
}

func (s *Scanner) probe(ctx context.Context, index int, specification probe.Specification, destination M.Socksaddr) (serverhello.Result, error) {
	packet, err := clienthello.Build(specification, s.source)
	if err != nil {
		return serverhello.Result{}, E.Cause(err, "build ", specification.Name)
	}
	response, err := s.transport.Exchange(ctx, destination, packet)
	if err != nil {
		return serverhello.Result{}, err
	}
	result := serverhello.Parse(response.Payload())
	s.logger.DebugContext(ctx, "probe[", index, "] ", specification, ": ", result)
	return result, nil
}

func (s *Scanner) Close() error {
	return s.geoIP.Close()
}
