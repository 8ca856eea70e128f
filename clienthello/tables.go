package clienthello

import "github.com/sagernet/sing/common"

// allCiphers is the full cipher suite list in wire order.
var allCiphers = []uint16{
	0x0016, 0x0033, 0x0067, 0xc09e, 0xc0a2, 0x009e, 0x0039, 0x006b,
	0xc09f, 0xc0a3, 0x009f, 0x0045, 0x00be, 0x0088, 0x00c4, 0x009a,
	0xc008, 0xc009, 0xc023, 0xc0ac, 0xc0ae, 0xc02b, 0xc00a, 0xc024,
	0xc0ad, 0xc0af, 0xc02c, 0xc072, 0xc073, 0xcca9, 0x1302, 0x1301,
	0xcc14, 0xc007, 0xc012, 0xc013, 0xc027, 0xc02f, 0xc014, 0xc028,
	0xc030, 0xc060, 0xc061, 0xc076, 0xc077, 0xcca8, 0x1305, 0x1304,
	0x1303, 0xcc13, 0xc011, 0x000a, 0x002f, 0x003c, 0xc09c, 0xc0a0,
	0x009c, 0x0035, 0x003d, 0xc09d, 0xc0a1, 0x009d, 0x0041, 0x00ba,
	0x0084, 0x00c0, 0x0007, 0x0004, 0x0005,
}

var noTLS13Ciphers = common.Filter(allCiphers, func(it uint16) bool {
	return it>>8 != 0x13
})

var (
	defaultALPN = []string{
		"\x08http/0.9",
		"\x08http/1.0",
		"\x08http/1.1",
		"\x06spdy/1",
		"\x06spdy/2",
		// spdy/3 and h2 move together.
		"\x06spdy/3\x02h2",
		"\x03h2c",
		"\x02hq",
	}
	rareALPN = []string{
		"\x08http/0.9",
		"\x08http/1.0",
		"\x06spdy/1",
		"\x06spdy/2",
		"\x06spdy/3",
		"\x03h2c",
		"\x02hq",
	}
)

const (
	recordTypeHandshake        = 0x16
	handshakeTypeClientHello   = 0x01
	sessionIDLength            = 32
	extensionServerName        = 0x0000
	extensionALPN              = 0x0010
	extensionKeyShare          = 0x0033
	extensionSupportedVersions = 0x002b
)

const (
	versionTLS10 uint16 = 0x0301
	versionTLS11 uint16 = 0x0302
	versionTLS12 uint16 = 0x0303
	versionTLS13 uint16 = 0x0304
)

var (
	compressionMethods   = []byte{0x01, 0x00}
	extendedMasterSecret = []byte{0x00, 0x17, 0x00, 0x00}
	maxFragmentLength    = []byte{0x00, 0x01, 0x00, 0x01, 0x01}
	renegotiationInfo    = []byte{0xff, 0x01, 0x00, 0x01, 0x00}
	supportedGroups      = []byte{0x00, 0x0a, 0x00, 0x0a, 0x00, 0x08, 0x00, 0x1d, 0x00, 0x17, 0x00, 0x18, 0x00, 0x19}
	ecPointFormats       = []byte{0x00, 0x0b, 0x00, 0x02, 0x01, 0x00}
	sessionTicket        = []byte{0x00, 0x23, 0x00, 0x00}
	signatureAlgorithms  = []byte{0x00, 0x0d, 0x00, 0x14, 0x00, 0x12, 0x04, 0x03, 0x08, 0x04, 0x04, 0x01, 0x05, 0x03, 0x08, 0x05, 0x05, 0x01, 0x08, 0x06, 0x06, 0x01, 0x02, 0x01}
	pskKeyExchangeModes  = []byte{0x00, 0x2d, 0x00, 0x02, 0x01, 0x01}
	keyShareX25519       = []byte{0x00, 0x1d, 0x00, 0x20}
	keyShareGreaseTail   = []byte{0x00, 0x01, 0x00}
)
