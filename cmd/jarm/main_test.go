package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sagernet/sing-jarm"
	"github.com/sagernet/sing-jarm/fingerprint"
	"github.com/sagernet/sing-jarm/serverhello"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
)

const sampleRaw = "c02b|0303|h2|0000-0017-ff01-000b-0023-0010"

func sampleResult() *jarm.Result {
	raw := make([]serverhello.Result, 10)
	for i := range raw {
		raw[i] = serverhello.ParseResult(sampleRaw)
	}
	hash := fingerprint.Assemble(raw)
	return &jarm.Result{
		ID:          uuid.Must(uuid.FromString("6ba7b810-9dad-11d1-80b4-00c04fd430c8")),
		Host:        "example.com",
		Port:        "443",
		Address:     "192.0.2.1:443",
		Fingerprint: hash,
		Raw:         raw,
		Match:       &fingerprint.Match{Hash: hash, Label: "sample", Similar: true},
		Country:     "US",
		ScannedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestReadTargets(t *testing.T) {
	t.Parallel()
	targets, err := readTargets(strings.NewReader("# targets\nexample.com\n\n  example.org:8443 # staging\nexample.com\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"example.com", "example.org:8443"}, targets)
}

func TestTextWriter(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer
	writer, err := newResultWriter("text", &buffer, true)
	require.NoError(t, err)
	require.NoError(t, writer.Write(sampleResult()))
	require.NoError(t, writer.Flush())
	lines := strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n")
	require.Len(t, lines, 11)
	require.Equal(t, "example.com:443 27d27d27d27d27d27d27d27d27d27debd865e63a4441da99411bab3aadfedf (similar to sample) [US]", lines[0])
	require.Equal(t, "  9 "+sampleRaw, lines[10])
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer
	writer, err := newResultWriter("json", &buffer, false)
	require.NoError(t, err)
	require.NoError(t, writer.Write(sampleResult()))
	require.NoError(t, writer.Flush())
	output := buffer.String()
	require.True(t, strings.HasSuffix(output, "}\n"))
	require.Contains(t, output, `"id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`)
	require.Contains(t, output, `"raw":["`+sampleRaw+`"`)
	require.Contains(t, output, `"similar":true`)
}

func TestCSVWriter(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer
	writer, err := newResultWriter("csv", &buffer, false)
	require.NoError(t, err)
	require.NoError(t, writer.Write(sampleResult()))
	require.NoError(t, writer.Write(sampleResult()))
	require.NoError(t, writer.Flush())
	lines := strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "host,port,address,fingerprint,match,similar,country", lines[0])
	require.Equal(t, "example.com,443,192.0.2.1:443,27d27d27d27d27d27d27d27d27d27debd865e63a4441da99411bab3aadfedf,sample,true,US", lines[1])
}

func TestUnknownFormat(t *testing.T) {
	t.Parallel()
	_, err := newResultWriter("xml", &bytes.Buffer{}, false)
	require.Error(t, err)
}

type closedWriter struct{}

func (closedWriter) Write(p []byte) (int, error) {
	return 0, os.ErrClosed
}

func TestWriteHash(t *testing.T) {
	t.Parallel()
	raw := make([]string, 10)
	for i := range raw {
		raw[i] = sampleRaw
	}
	var buffer bytes.Buffer
	require.NoError(t, writeHash(&buffer, raw))
	require.Equal(t, "27d27d27d27d27d27d27d27d27d27debd865e63a4441da99411bab3aadfedf\n", buffer.String())
	require.ErrorIs(t, writeHash(closedWriter{}, raw), os.ErrClosed)
}

func TestDecodeDump(t *testing.T) {
	t.Parallel()
	for _, dump := range []string{"16030300", "0x16030300", "16:03:03:00", " 16 03\n03 00 "} {
		data, err := decodeDump(dump)
		require.NoError(t, err, dump)
		require.Equal(t, []byte{0x16, 0x03, 0x03, 0x00}, data)
	}
	_, err := decodeDump("zz")
	require.Error(t, err)
}
