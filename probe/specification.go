package probe

import (
	"github.com/sagernet/sing-jarm/common/mung"
	"github.com/sagernet/sing/common"
	E "github.com/sagernet/sing/common/exceptions"
	F "github.com/sagernet/sing/common/format"
)

type TLSVersion uint8

const (
	TLS11 TLSVersion = iota
	TLS12
	TLS13
)

var (
	versionToString = map[TLSVersion]string{
		TLS11: "tls1.1",
		TLS12: "tls1.2",
		TLS13: "tls1.3",
	}
	stringToVersion = common.ReverseMap(versionToString)
)

func (v TLSVersion) String() string {
	name, loaded := versionToString[v]
	if !loaded {
		return F.ToString("version(", uint8(v), ")")
	}
	return name
}

func ParseTLSVersion(name string) (TLSVersion, error) {
	version, loaded := stringToVersion[name]
	if !loaded {
		return TLS12, E.New("unknown TLS version: ", name)
	}
	return version, nil
}

type CipherSet uint8

const (
	CipherAll CipherSet = iota
	CipherNoTLS13
)

func (s CipherSet) String() string {
	switch s {
	case CipherAll:
		return "all"
	case CipherNoTLS13:
		return "no1.3"
	default:
		return F.ToString("cipher_set(", uint8(s), ")")
	}
}

// VersionHint selects the supported_versions list a probe declares.
type VersionHint uint8

const (
	HintNone VersionHint = iota
	HintTLS12
	HintTLS13
)

func (h VersionHint) String() string {
	switch h {
	case HintNone:
		return "none"
	case HintTLS12:
		return "1.2_support"
	case HintTLS13:
		return "1.3_support"
	default:
		return F.ToString("hint(", uint8(h), ")")
	}
}

// Specification is the immutable parameter set of one probe.
type Specification struct {
	Name           string
	Host           string
	Port           string
	Version        TLSVersion
	Ciphers        CipherSet
	CipherOrder    mung.Order
	Grease         bool
	RareALPN       bool
	VersionHint    VersionHint
	ExtensionOrder mung.Order
}

func (s Specification) String() string {
	message := F.ToString(s.Version, " ", s.Ciphers, " ", s.CipherOrder)
	if s.Grease {
		message += " grease"
	}
	if s.RareALPN {
		message += " rare_alpn"
	}
	return F.ToString(message, " ", s.VersionHint, " ", s.ExtensionOrder)
}
