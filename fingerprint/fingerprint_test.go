package fingerprint_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sagernet/sing-jarm/fingerprint"
	"github.com/sagernet/sing-jarm/serverhello"

	"github.com/stretchr/testify/require"
)

const (
	sampleRaw  = "c02b|0303|h2|0000-0017-ff01-000b-0023-0010"
	sampleHash = "27d27d27d27d27d27d27d27d27d27debd865e63a4441da99411bab3aadfedf"
)

func repeat(raw string) []string {
	output := make([]string, 10)
	for i := range output {
		output[i] = raw
	}
	return output
}

func TestAssemble(t *testing.T) {
	t.Parallel()
	require.Equal(t, sampleHash, fingerprint.AssembleRaw(repeat(sampleRaw)))
	require.Equal(t, strings.Repeat("0", 62), fingerprint.AssembleRaw(repeat(serverhello.Sentinel)))
	require.Equal(t, fingerprint.Zero, fingerprint.Assemble(make([]serverhello.Result, 10)))
}

func TestAssembleMixed(t *testing.T) {
	t.Parallel()
	raw := repeat(serverhello.Sentinel)
	raw[0] = sampleRaw
	raw[2] = "1302|0303||0033-002b"
	raw[3] = "c02f|0303||"
	hash := fingerprint.AssembleRaw(raw)
	require.Equal(t, "27d00042d29d000000000000000000ab11da2c8b526e23234f58d3fe61edef", hash)
	require.True(t, fingerprint.Valid(hash))
}

func TestCipherRank(t *testing.T) {
	t.Parallel()
	for cipher, rank := range map[string]string{
		"":     "00",
		"0004": "01",
		"c027": "25",
		"c02b": "27",
		"1305": "45",
		"0000": "46",
		"0034": "46",
		"C02B": "46",
	} {
		require.Equal(t, rank, fingerprint.CipherRank(cipher), cipher)
	}
}

func TestVersionLetter(t *testing.T) {
	t.Parallel()
	for version, letter := range map[string]byte{
		"":     '0',
		"0300": 'a',
		"0301": 'b',
		"0302": 'c',
		"0303": 'd',
		"0304": 'e',
		"0305": 'f',
		"0306": '0',
		"030a": '0',
		"03":   '0',
	} {
		require.Equal(t, letter, fingerprint.VersionLetter(version), version)
	}
}

func TestValid(t *testing.T) {
	t.Parallel()
	require.True(t, fingerprint.Valid(sampleHash))
	require.True(t, fingerprint.Valid(fingerprint.Zero))
	require.False(t, fingerprint.Valid(strings.ToUpper(sampleHash)))
	require.False(t, fingerprint.Valid(sampleHash[:61]))
	require.Equal(t, "27d27d27d27d27d27d27d27d27d27d", fingerprint.Fuzzy(sampleHash))
}

func TestDatabase(t *testing.T) {
	t.Parallel()
	database, err := fingerprint.NewDatabase(map[string]string{
		sampleHash:       "sample",
		fingerprint.Zero: "unreachable",
	})
	require.NoError(t, err)
	require.Equal(t, 1, database.Len())

	match, loaded := database.Identify(sampleHash)
	require.True(t, loaded)
	require.Equal(t, fingerprint.Match{Hash: sampleHash, Label: "sample"}, match)

	similarHash := sampleHash[:30] + strings.Repeat("f", 32)
	match, loaded = database.Identify(similarHash)
	require.True(t, loaded)
	require.True(t, match.Similar)
	require.Equal(t, "sample", match.Label)

	_, loaded = database.Identify(fingerprint.Zero)
	require.False(t, loaded)
	_, loaded = database.Identify("29d" + sampleHash[3:])
	require.False(t, loaded)

	_, err = fingerprint.NewDatabase(map[string]string{"abc": "short"})
	require.Error(t, err)
}

func TestLoadDatabase(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "known.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"`+sampleHash+`": "sample"}`), 0o644))
	database, err := fingerprint.LoadDatabase(path)
	require.NoError(t, err)
	match, loaded := database.Identify(sampleHash)
	require.True(t, loaded)
	require.Equal(t, "sample", match.Label)

	_, err = fingerprint.LoadDatabase(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
