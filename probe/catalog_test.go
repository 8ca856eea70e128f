package probe_test

import (
	"testing"

	"github.com/sagernet/sing-jarm/common/mung"
	"github.com/sagernet/sing-jarm/probe"

	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	t.Parallel()
	catalog := probe.Catalog("example.com", "8443")
	require.Len(t, catalog, 10)
	for _, specification := range catalog {
		require.Equal(t, "example.com", specification.Host)
		require.Equal(t, "8443", specification.Port)
	}
	require.Equal(t, probe.Specification{
		Name:           "tls1_2_middle_out",
		Host:           "example.com",
		Port:           "8443",
		Version:        probe.TLS12,
		Ciphers:        probe.CipherAll,
		CipherOrder:    mung.MiddleOut,
		Grease:         true,
		RareALPN:       true,
		VersionHint:    probe.HintNone,
		ExtensionOrder: mung.Reverse,
	}, catalog[4])
	require.Equal(t, probe.TLS11, catalog[5].Version)
	require.Equal(t, probe.CipherNoTLS13, catalog[8].Ciphers)
	require.Equal(t, "tls1.3 all middle_out grease 1.3_support reverse", catalog[9].String())
}

func TestParseTLSVersion(t *testing.T) {
	t.Parallel()
	version, err := probe.ParseTLSVersion("tls1.3")
	require.NoError(t, err)
	require.Equal(t, probe.TLS13, version)
	_, err = probe.ParseTLSVersion("ssl3")
	require.Error(t, err)
}
