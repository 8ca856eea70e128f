package geoip_test

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/sagernet/sing-jarm/common/geoip"

	"github.com/stretchr/testify/require"
)

func TestOpenMissing(t *testing.T) {
	t.Parallel()
	_, err := geoip.Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	require.Error(t, err)
}

func TestOpenInvalid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "country.mmdb")
	require.NoError(t, os.WriteFile(path, []byte("not a maxmind database"), 0o644))
	_, err := geoip.Open(path)
	require.Error(t, err)
}

func TestNilReader(t *testing.T) {
	t.Parallel()
	var reader *geoip.Reader
	require.Empty(t, reader.Lookup(netip.MustParseAddr("192.0.2.1")))
	require.NoError(t, reader.Close())
}

// writeDatabase writes an IPv4 database with a single search node: 0.0.0.0/1
// points at record, 128.0.0.0/1 is empty.
func writeDatabase(t *testing.T, databaseType string, record []byte) string {
	t.Helper()
	content := []byte{0x00, 0x00, 0x11, 0x00, 0x00, 0x01}
	content = append(content, make([]byte, 16)...)
	content = append(content, record...)
	content = append(content, "\xab\xcd\xefMaxMind.com"...)
	content = append(content, 0xe4)
	content = appendString(content, "database_type")
	content = appendString(content, databaseType)
	content = appendString(content, "ip_version")
	content = append(content, 0xa1, 0x04)
	content = appendString(content, "node_count")
	content = append(content, 0xc1, 0x01)
	content = appendString(content, "record_size")
	content = append(content, 0xa1, 0x18)
	path := filepath.Join(t.TempDir(), "country.mmdb")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func appendString(content []byte, value string) []byte {
	return append(append(content, 0x40|byte(len(value))), value...)
}

func countryEntry(key string, code string) []byte {
	record := []byte{0xe1}
	record = appendString(record, key)
	record = append(record, 0xe1)
	record = appendString(record, "iso_code")
	return appendString(record, code)
}

func TestLookupCountry(t *testing.T) {
	t.Parallel()
	for _, testCase := range []struct {
		databaseType string
		record       []byte
	}{
		{"GeoLite2-Country", countryEntry("country", "US")},
		{"GeoIP2-Country", countryEntry("registered_country", "US")},
		{"sing-geoip", appendString(nil, "us")},
	} {
		reader, err := geoip.Open(writeDatabase(t, testCase.databaseType, testCase.record))
		require.NoError(t, err, testCase.databaseType)
		require.Equal(t, "US", reader.Lookup(netip.MustParseAddr("10.0.0.1")), testCase.databaseType)
		require.Equal(t, "US", reader.Lookup(netip.MustParseAddr("::ffff:10.0.0.1")), testCase.databaseType)
		require.Empty(t, reader.Lookup(netip.MustParseAddr("192.0.2.1")), testCase.databaseType)
		require.Empty(t, reader.Lookup(netip.MustParseAddr("2001:db8::1")), testCase.databaseType)
		require.Empty(t, reader.Lookup(netip.Addr{}), testCase.databaseType)
		require.NoError(t, reader.Close())
	}
}

func TestOpenWrongType(t *testing.T) {
	t.Parallel()
	_, err := geoip.Open(writeDatabase(t, "GeoLite2-ASN", countryEntry("country", "US")))
	require.Error(t, err)
}
