// Package clienthello encodes the ClientHello records sent by JARM probes.
package clienthello

import (
	"github.com/sagernet/sing-jarm/common/mung"
	"github.com/sagernet/sing-jarm/common/random"
	C "github.com/sagernet/sing-jarm/constant"
	"github.com/sagernet/sing-jarm/probe"
	E "github.com/sagernet/sing/common/exceptions"

	"golang.org/x/crypto/cryptobyte"
)

// PackUint8 rejects values that do not fit in one byte.
func PackUint8(value int) (uint8, error) {
	if value < 0 || value > 0xff {
		return 0, E.Extend(C.ErrFieldOverflow, value)
	}
	return uint8(value), nil
}

// PackUint16 keeps the low 16 bits of value.
func PackUint16(value int) uint16 {
	return uint16(value)
}

func recordVersion(version probe.TLSVersion) uint16 {
	switch version {
	case probe.TLS11:
		return versionTLS11
	case probe.TLS13:
		return versionTLS10
	default:
		return versionTLS12
	}
}

func clientVersion(version probe.TLSVersion) uint16 {
	if version == probe.TLS11 {
		return versionTLS11
	}
	return versionTLS12
}

// Build encodes the complete TLS record for one probe.
func Build(specification probe.Specification, source random.Source) ([]byte, error) {
	body := cryptobyte.NewBuilder(nil)
	body.AddUint16(clientVersion(specification.Version))
	clientRandom := source.Bytes()
	body.AddBytes(clientRandom[:])
	sessionID := source.Bytes()
	length, err := PackUint8(sessionIDLength)
	if err != nil {
		return nil, err
	}
	body.AddUint8(length)
	body.AddBytes(sessionID[:])

	var cipherSuites []uint16
	if specification.Grease {
		grease := source.Grease()
		cipherSuites = append(cipherSuites, uint16(grease[0])<<8|uint16(grease[1]))
	}
	cipherSuites = append(cipherSuites, Ciphers(specification.Ciphers, specification.CipherOrder)...)
	body.AddUint16(PackUint16(len(cipherSuites) * 2))
	for _, cipherSuite := range cipherSuites {
		body.AddUint16(cipherSuite)
	}
	body.AddBytes(compressionMethods)

	extensions, err := Extensions(specification, source)
	if err != nil {
		return nil, E.Cause(err, "build extensions")
	}
	body.AddUint16(PackUint16(len(extensions)))
	body.AddBytes(extensions)
	clientHello, err := body.Bytes()
	if err != nil {
		return nil, err
	}

	handshakeLength := len(clientHello) + 4
	record := cryptobyte.NewBuilder(make([]byte, 0, handshakeLength+5))
	record.AddUint8(recordTypeHandshake)
	record.AddUint16(recordVersion(specification.Version))
	record.AddUint16(PackUint16(handshakeLength))
	record.AddUint8(handshakeTypeClientHello)
	record.AddUint8(0)
	record.AddUint16(PackUint16(len(clientHello)))
	record.AddBytes(clientHello)
	return record.Bytes()
}

// Ciphers returns the cipher suite table for set rearranged by order.
func Ciphers(set probe.CipherSet, order mung.Order) []uint16 {
	if set == probe.CipherNoTLS13 {
		return mung.Apply(noTLS13Ciphers, order)
	}
	return mung.Apply(allCiphers, order)
}

// Extensions encodes the extension block without its outer length.
func Extensions(specification probe.Specification, source random.Source) ([]byte, error) {
	builder := cryptobyte.NewBuilder(nil)
	if specification.Grease {
		grease := source.Grease()
		builder.AddBytes(grease[:])
		builder.AddUint16(0)
	}
	builder.AddBytes(ServerName(specification.Host))
	builder.AddBytes(extendedMasterSecret)
	builder.AddBytes(maxFragmentLength)
	builder.AddBytes(renegotiationInfo)
	builder.AddBytes(supportedGroups)
	builder.AddBytes(ecPointFormats)
	builder.AddBytes(sessionTicket)
	builder.AddBytes(ALPN(specification.RareALPN, specification.ExtensionOrder))
	builder.AddBytes(signatureAlgorithms)
	builder.AddBytes(KeyShare(specification.Grease, source))
	builder.AddBytes(pskKeyExchangeModes)
	if specification.Version == probe.TLS13 || specification.VersionHint == probe.HintTLS12 {
		supportedVersions, err := SupportedVersions(specification, source)
		if err != nil {
			return nil, err
		}
		builder.AddBytes(supportedVersions)
	}
	return builder.Bytes()
}

// ServerName encodes the server_name extension for a single host name.
func ServerName(host string) []byte {
	builder := cryptobyte.NewBuilder(make([]byte, 0, len(host)+9))
	builder.AddUint16(extensionServerName)
	builder.AddUint16(PackUint16(len(host) + 5))
	builder.AddUint16(PackUint16(len(host) + 3))
	builder.AddUint8(0x00)
	builder.AddUint16(PackUint16(len(host)))
	builder.AddBytes([]byte(host))
	return builder.BytesOrPanic()
}

// ALPN encodes the application_layer_protocol_negotiation extension.
func ALPN(rare bool, order mung.Order) []byte {
	protocols := defaultALPN
	if rare {
		protocols = rareALPN
	}
	var protocolList []byte
	for _, protocol := range mung.Apply(protocols, order) {
		protocolList = append(protocolList, protocol...)
	}
	builder := cryptobyte.NewBuilder(make([]byte, 0, len(protocolList)+6))
	builder.AddUint16(extensionALPN)
	builder.AddUint16(PackUint16(len(protocolList) + 2))
	builder.AddUint16(PackUint16(len(protocolList)))
	builder.AddBytes(protocolList)
	return builder.BytesOrPanic()
}

// KeyShare encodes a key_share extension offering one X25519 share.
func KeyShare(grease bool, source random.Source) []byte {
	share := cryptobyte.NewBuilder(nil)
	if grease {
		greaseValue := source.Grease()
		share.AddBytes(greaseValue[:])
		share.AddBytes(keyShareGreaseTail)
	}
	share.AddBytes(keyShareX25519)
	key := source.Bytes()
	share.AddBytes(key[:])
	shares := share.BytesOrPanic()

	builder := cryptobyte.NewBuilder(make([]byte, 0, len(shares)+6))
	builder.AddUint16(extensionKeyShare)
	builder.AddUint16(PackUint16(len(shares) + 2))
	builder.AddUint16(PackUint16(len(shares)))
	builder.AddBytes(shares)
	return builder.BytesOrPanic()
}

// SupportedVersions encodes the supported_versions extension. TLS 1.3 is
// left out when the probe declares TLS 1.2 support only.
func SupportedVersions(specification probe.Specification, source random.Source) ([]byte, error) {
	versions := []uint16{versionTLS10, versionTLS11, versionTLS12}
	if specification.VersionHint != probe.HintTLS12 {
		versions = append(versions, versionTLS13)
	}
	list := cryptobyte.NewBuilder(nil)
	if specification.Grease {
		grease := source.Grease()
		list.AddBytes(grease[:])
	}
	for _, version := range mung.Apply(versions, specification.ExtensionOrder) {
		list.AddUint16(version)
	}
	versionList := list.BytesOrPanic()
	length, err := PackUint8(len(versionList))
	if err != nil {
		return nil, err
	}
	builder := cryptobyte.NewBuilder(make([]byte, 0, len(versionList)+5))
	builder.AddUint16(extensionSupportedVersions)
	builder.AddUint16(PackUint16(len(versionList) + 1))
	builder.AddUint8(length)
	builder.AddBytes(versionList)
	return builder.Bytes()
}
