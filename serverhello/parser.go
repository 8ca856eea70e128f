// Package serverhello extracts the negotiated parameters a JARM fingerprint
// is made of from a raw ServerHello.
package serverhello

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/cryptobyte"
)

const Sentinel = "|||"

const (
	recordTypeHandshake   = 0x16
	recordTypeAlert       = 0x15
	handshakeServerHello  = 0x02
	extensionALPN         = 0x0010
	sessionIDLengthOffset = 43
)

var (
	encryptedExtensionsMarker = []byte{0x0e, 0xac, 0x0b}
	certificateMarker         = []byte{0x0f, 0xf0, 0x0b}
)

// Result holds the fields of one probe response. The zero value stands for a
// target that did not answer with a usable ServerHello.
type Result struct {
	Cipher     string
	Version    string
	ALPN       string
	Extensions string
}

func (r Result) String() string {
	return r.Cipher + "|" + r.Version + "|" + r.ALPN + "|" + r.Extensions
}

func (r Result) IsEmpty() bool {
	return r == Result{}
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Result) UnmarshalText(text []byte) error {
	*r = ParseResult(string(text))
	return nil
}

// ParseResult reads the pipe separated form produced by String. The ALPN
// field is taken as everything between the version and the last separator.
func ParseResult(raw string) Result {
	var result Result
	result.Cipher, raw, _ = strings.Cut(raw, "|")
	result.Version, raw, _ = strings.Cut(raw, "|")
	separator := strings.LastIndexByte(raw, '|')
	if separator < 0 {
		result.ALPN = raw
		return result
	}
	result.ALPN = raw[:separator]
	result.Extensions = raw[separator+1:]
	return result
}

// Parse decodes data, which should hold exactly the bytes received from the
// target. Any malformed or truncated input yields the zero Result.
func Parse(data []byte) Result {
	header, ok := at(data, 0, 6)
	if !ok || header[0] == recordTypeAlert {
		return Result{}
	}
	if header[0] != recordTypeHandshake || header[5] != handshakeServerHello {
		return Result{}
	}
	sessionIDLength, ok := at(data, sessionIDLengthOffset, 1)
	if !ok {
		return Result{}
	}
	length := int(sessionIDLength[0])
	cipher, ok := at(data, 44+length, 2)
	if !ok {
		return Result{}
	}
	version, ok := at(data, 9, 2)
	if !ok {
		return Result{}
	}
	alpn, extensions, ok := Extensions(data, length)
	if !ok {
		return Result{}
	}
	return Result{
		Cipher:     hex.EncodeToString(cipher),
		Version:    hex.EncodeToString(version),
		ALPN:       alpn,
		Extensions: extensions,
	}
}

// Extensions walks the extension block following a session ID of
// sessionIDLength bytes. It returns the negotiated ALPN protocol and the
// hyphen joined extension types in server order. Responses that carry
// encrypted handshake data or an inconsistent record length report empty
// fields; ok is false only when the walk leaves the buffer.
func Extensions(data []byte, sessionIDLength int) (alpn string, extensions string, ok bool) {
	marker, ok := at(data, sessionIDLength+47, 1)
	if !ok {
		return "", "", false
	}
	if marker[0] == 11 {
		return "", "", true
	}
	if matches(data, sessionIDLength+50, encryptedExtensionsMarker) || matches(data, sessionIDLength+82, certificateMarker) {
		return "", "", true
	}
	serverHelloLength, ok := readUint16(data, 3)
	if !ok {
		return "", "", false
	}
	if sessionIDLength+42 >= serverHelloLength {
		return "", "", true
	}
	extensionsLength, ok := readUint16(data, sessionIDLength+47)
	if !ok {
		return "", "", false
	}
	count := sessionIDLength + 49
	maximum := extensionsLength + count - 1
	cursor := cryptobyte.String(data)
	if !cursor.Skip(count) {
		return "", "", false
	}
	var (
		types     []string
		alpnFound bool
	)
	for count < maximum {
		var (
			extensionType uint16
			valueLength   uint16
			value         []byte
		)
		if !cursor.ReadUint16(&extensionType) || !cursor.ReadUint16(&valueLength) {
			return "", "", false
		}
		if valueLength > 0 && !cursor.ReadBytes(&value, int(valueLength)) {
			return "", "", false
		}
		count += int(valueLength) + 4
		types = append(types, hex.EncodeToString([]byte{byte(extensionType >> 8), byte(extensionType)}))
		if extensionType == extensionALPN && len(value) > 0 && !alpnFound {
			alpnFound = true
			alpn = protocolName(value)
		}
	}
	return alpn, strings.Join(types, "-"), true
}

// protocolName skips the list length and the name length of an ALPN
// extension value.
func protocolName(value []byte) string {
	if len(value) <= 3 {
		return ""
	}
	name := string(value[3:])
	if !utf8.ValidString(name) {
		name = strings.ToValidUTF8(name, string(utf8.RuneError))
	}
	return name
}

func at(data []byte, offset int, length int) ([]byte, bool) {
	if offset < 0 {
		return nil, false
	}
	cursor := cryptobyte.String(data)
	var output []byte
	if !cursor.Skip(offset) || !cursor.ReadBytes(&output, length) {
		return nil, false
	}
	return output, true
}

func readUint16(data []byte, offset int) (int, bool) {
	if offset < 0 {
		return 0, false
	}
	cursor := cryptobyte.String(data)
	var value uint16
	if !cursor.Skip(offset) || !cursor.ReadUint16(&value) {
		return 0, false
	}
	return int(value), true
}

func matches(data []byte, offset int, marker []byte) bool {
	window, ok := at(data, offset, len(marker))
	return ok && string(window) == string(marker)
}
