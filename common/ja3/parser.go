package ja3

import (
	"strconv"

	E "github.com/sagernet/sing/common/exceptions"

	"golang.org/x/crypto/cryptobyte"
)

const (
	recordTypeHandshake      = 0x16
	handshakeTypeClientHello = 0x01

	extensionServerName          = 0x0000
	extensionSupportedGroups     = 0x000a
	extensionECPointFormats      = 0x000b
	extensionSignatureAlgorithms = 0x000d
	extensionSupportedVersions   = 0x002b
)

var ErrNotClientHello = E.New("not a ClientHello record")

// isGrease reports reserved values of the form 0x?a?a.
func isGrease(value uint16) bool {
	return value&0x0f0f == 0x0a0a && value>>8 == value&0xff
}

func (c *ClientHello) parseSegment(payload []byte) error {
	record := cryptobyte.String(payload)
	var (
		recordType    uint8
		recordVersion uint16
		fragment      cryptobyte.String
	)
	if !record.ReadUint8(&recordType) || recordType != recordTypeHandshake {
		return ErrNotClientHello
	}
	if !record.ReadUint16(&recordVersion) || !record.ReadUint16LengthPrefixed(&fragment) {
		return E.New("truncated record")
	}
	var (
		handshakeType uint8
		message       cryptobyte.String
	)
	if !fragment.ReadUint8(&handshakeType) || handshakeType != handshakeTypeClientHello {
		return ErrNotClientHello
	}
	if !fragment.ReadUint24LengthPrefixed(&message) {
		return E.New("truncated handshake")
	}
	var (
		sessionID          cryptobyte.String
		cipherSuites       cryptobyte.String
		compressionMethods cryptobyte.String
	)
	if !message.ReadUint16(&c.Version) || !message.Skip(32) ||
		!message.ReadUint8LengthPrefixed(&sessionID) ||
		!message.ReadUint16LengthPrefixed(&cipherSuites) ||
		!message.ReadUint8LengthPrefixed(&compressionMethods) {
		return E.New("malformed ClientHello")
	}
	for !cipherSuites.Empty() {
		var cipherSuite uint16
		if !cipherSuites.ReadUint16(&cipherSuite) {
			return E.New("malformed cipher suites")
		}
		if !isGrease(cipherSuite) {
			c.CipherSuites = append(c.CipherSuites, cipherSuite)
		}
	}
	if message.Empty() {
		return nil
	}
	var extensions cryptobyte.String
	if !message.ReadUint16LengthPrefixed(&extensions) {
		return E.New("malformed extensions")
	}
	for !extensions.Empty() {
		var (
			extensionType uint16
			extensionData cryptobyte.String
		)
		if !extensions.ReadUint16(&extensionType) || !extensions.ReadUint16LengthPrefixed(&extensionData) {
			return E.New("malformed extensions")
		}
		if isGrease(extensionType) {
			continue
		}
		c.Extensions = append(c.Extensions, extensionType)
		err := c.parseExtension(extensionType, extensionData)
		if err != nil {
			return E.Cause(err, "extension ", extensionType)
		}
	}
	return nil
}

func (c *ClientHello) parseExtension(extensionType uint16, data cryptobyte.String) error {
	switch extensionType {
	case extensionServerName:
		var names cryptobyte.String
		if !data.ReadUint16LengthPrefixed(&names) {
			return E.New("malformed server name")
		}
		for !names.Empty() {
			var (
				nameType uint8
				name     cryptobyte.String
			)
			if !names.ReadUint8(&nameType) || !names.ReadUint16LengthPrefixed(&name) {
				return E.New("malformed server name")
			}
			if nameType == 0 {
				c.ServerName = string(name)
			}
		}
	case extensionSupportedGroups:
		values, err := readUint16List(data)
		if err != nil {
			return err
		}
		c.EllipticCurves = values
	case extensionECPointFormats:
		var formats cryptobyte.String
		if !data.ReadUint8LengthPrefixed(&formats) {
			return E.New("malformed point formats")
		}
		c.EllipticCurvePF = append([]uint8(nil), formats...)
	case extensionSignatureAlgorithms:
		values, err := readUint16List(data)
		if err != nil {
			return err
		}
		c.SignatureAlgorithms = values
	case extensionSupportedVersions:
		var versions cryptobyte.String
		if !data.ReadUint8LengthPrefixed(&versions) {
			return E.New("malformed supported versions")
		}
		for !versions.Empty() {
			var version uint16
			if !versions.ReadUint16(&version) {
				return E.New("malformed supported versions")
			}
			if !isGrease(version) {
				c.Versions = append(c.Versions, version)
			}
		}
	}
	return nil
}

func readUint16List(data cryptobyte.String) ([]uint16, error) {
	var list cryptobyte.String
	if !data.ReadUint16LengthPrefixed(&list) {
		return nil, E.New("malformed list")
	}
	var values []uint16
	for !list.Empty() {
		var value uint16
		if !list.ReadUint16(&value) {
			return nil, E.New("malformed list")
		}
		if !isGrease(value) {
			values = append(values, value)
		}
	}
	return values, nil
}

func (c *ClientHello) marshalJA3() {
	buffer := strconv.AppendUint(nil, uint64(c.Version), 10)
	buffer = append(buffer, ',')
	buffer = appendList(buffer, c.CipherSuites)
	buffer = append(buffer, ',')
	buffer = appendList(buffer, c.Extensions)
	buffer = append(buffer, ',')
	buffer = appendList(buffer, c.EllipticCurves)
	buffer = append(buffer, ',')
	buffer = appendList(buffer, c.EllipticCurvePF)
	c.ja3ByteString = buffer
}

func appendList[T uint8 | uint16](buffer []byte, values []T) []byte {
	for i, value := range values {
		if i > 0 {
			buffer = append(buffer, '-')
		}
		buffer = strconv.AppendUint(buffer, uint64(value), 10)
	}
	return buffer
}
