package option_test

import (
	"testing"
	"time"

	C "github.com/sagernet/sing-jarm/constant"
	"github.com/sagernet/sing-jarm/option"

	"github.com/stretchr/testify/require"
)

const fullConfig = `{
  "log": {"level": "debug", "output": "stdout", "timestamp": true},
  "scan": {"targets": ["example.com", "[2001:db8::1]:8443"], "timeout": "10s", "parallel": true, "port": "8443"},
  "resolver": {"server": "1.1.1.1:53", "strategy": "prefer_ipv4", "timeout": "2s"},
  "proxy": {"url": "socks5://127.0.0.1:1080"},
  "store": {"enabled": true, "path": "jarm.db"},
  "geoip": {"path": "GeoLite2-Country.mmdb"},
  "fingerprints": {"path": "known.json", "entries": {"27d27d27d27d27d27d27d27d27d27debd865e63a4441da99411bab3aadfedf": "sample"}}
}`

func TestOptions(t *testing.T) {
	t.Parallel()
	var options option.Options
	require.NoError(t, options.UnmarshalJSON([]byte(fullConfig)))
	require.Equal(t, "debug", options.Log.Level)
	require.Equal(t, "stdout", options.Log.Output)
	require.True(t, options.Log.Timestamp)
	require.Equal(t, []string{"example.com", "[2001:db8::1]:8443"}, []string(options.Scan.Targets))
	require.Equal(t, 10*time.Second, time.Duration(options.Scan.Timeout))
	require.True(t, options.Scan.Parallel)
	require.Equal(t, "8443", options.Scan.Port)
	require.Equal(t, "1.1.1.1:53", options.Resolver.Server)
	require.Equal(t, option.DomainStrategy(C.DomainStrategyPreferIPv4), options.Resolver.Strategy)
	require.Equal(t, 2*time.Second, time.Duration(options.Resolver.Timeout))
	require.Equal(t, "socks5://127.0.0.1:1080", options.Proxy.URL)
	require.True(t, options.Store.Enabled)
	require.Equal(t, "GeoLite2-Country.mmdb", options.GeoIP.Path)
	require.Len(t, options.Fingerprints.Entries, 1)
	require.NotEmpty(t, options.RawMessage)
}

func TestOptionsSingleTarget(t *testing.T) {
	t.Parallel()
	var options option.Options
	require.NoError(t, options.UnmarshalJSON([]byte(`{"scan": {"targets": "example.com"}}`)))
	require.Equal(t, []string{"example.com"}, []string(options.Scan.Targets))
	require.Nil(t, options.Log)
}

func TestOptionsRejected(t *testing.T) {
	t.Parallel()
	for _, content := range []string{
		`{"scanner": {}}`,
		`{"scan": {"port": "https"}}`,
		`{"scan": {"port": "0"}}`,
		`{"scan": {"timeout": "soon"}}`,
		`{"resolver": {"strategy": "ipv5_only"}}`,
		`{"resolver": {"server": ":53"}}`,
		`{"store": {"enabled": true}}`,
	} {
		var options option.Options
		require.Error(t, options.UnmarshalJSON([]byte(content)), content)
	}
}

func TestDomainStrategy(t *testing.T) {
	t.Parallel()
	strategy := option.DomainStrategy(C.DomainStrategyIPv6Only)
	content, err := strategy.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"ipv6_only"`, string(content))
	var decoded option.DomainStrategy
	require.NoError(t, decoded.UnmarshalJSON(content))
	require.Equal(t, strategy, decoded)
}
