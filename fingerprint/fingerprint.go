// Package fingerprint folds ten probe results into a JARM hash.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	C "github.com/sagernet/sing-jarm/constant"
	"github.com/sagernet/sing-jarm/serverhello"

	"golang.org/x/exp/slices"
)

// Zero is the hash of a target that answered none of the probes.
var Zero = strings.Repeat("0", C.FingerprintLength)

// cipherRanking orders cipher suites for the fuzzy part of the hash. It is
// not the wire order used in ClientHellos.
var cipherRanking = []string{
	"0004", "0005", "0007", "000a", "0016", "002f", "0033", "0035", "0039", "003c",
	"003d", "0041", "0045", "0067", "006b", "0084", "0088", "009a", "009c", "009d",
	"009e", "009f", "00ba", "00be", "00c0", "00c4", "c007", "c008", "c009", "c00a",
	"c011", "c012", "c013", "c014", "c023", "c024", "c027", "c028", "c02b", "c02c",
	"c02f", "c030", "c060", "c061", "c072", "c073", "c076", "c077", "c09c", "c09d",
	"c09e", "c09f", "c0a0", "c0a1", "c0a2", "c0a3", "c0ac", "c0ad", "c0ae", "c0af",
	"cc13", "cc14", "cca8", "cca9", "1301", "1302", "1303", "1304", "1305",
}

const versionLetters = "abcdef"

// CipherRank maps a hex cipher suite to its 1-based position in the ranking
// table as two hex digits. Unknown suites rank one past the table.
func CipherRank(cipher string) string {
	if cipher == "" {
		return "00"
	}
	index := slices.Index(cipherRanking, cipher)
	if index < 0 {
		index = len(cipherRanking)
	}
	return hexByte(index + 1)
}

// VersionLetter maps the last digit of a hex protocol version to a letter,
// 0301 to b, 0303 to d and so on.
func VersionLetter(version string) byte {
	if len(version) < 4 {
		return '0'
	}
	digit := version[3]
	if digit < '0' || int(digit-'0') >= len(versionLetters) {
		return '0'
	}
	return versionLetters[digit-'0']
}

// Assemble builds the 62 character hash from results in catalog order.
func Assemble(results []serverhello.Result) string {
	if !slices.ContainsFunc(results, func(it serverhello.Result) bool {
		return !it.IsEmpty()
	}) {
		return Zero
	}
	var (
		fuzzy strings.Builder
		tail  strings.Builder
	)
	for _, result := range results {
		fuzzy.WriteString(CipherRank(result.Cipher))
		fuzzy.WriteByte(VersionLetter(result.Version))
		tail.WriteString(result.ALPN)
		tail.WriteString(result.Extensions)
	}
	digest := sha256.Sum256([]byte(tail.String()))
	return fuzzy.String() + hex.EncodeToString(digest[:])[:32]
}

// AssembleRaw is Assemble over pipe separated raw results.
func AssembleRaw(raw []string) string {
	results := make([]serverhello.Result, 0, len(raw))
	for _, it := range raw {
		results = append(results, serverhello.ParseResult(it))
	}
	return Assemble(results)
}

// Fuzzy returns the cipher and version part of hash.
func Fuzzy(hash string) string {
	if len(hash) < C.FuzzyLength {
		return hash
	}
	return hash[:C.FuzzyLength]
}

// Valid reports whether hash is a well formed lowercase hash.
func Valid(hash string) bool {
	if len(hash) != C.FingerprintLength {
		return false
	}
	for i := 0; i < len(hash); i++ {
		if !(hash[i] >= '0' && hash[i] <= '9' || hash[i] >= 'a' && hash[i] <= 'f') {
			return false
		}
	}
	return true
}

func hexByte(value int) string {
	output := strconv.FormatInt(int64(value), 16)
	if len(output) < 2 {
		output = "0" + output
	}
	return output
}
