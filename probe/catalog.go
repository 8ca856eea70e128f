package probe

import (
	"github.com/sagernet/sing-jarm/common/mung"
	C "github.com/sagernet/sing-jarm/constant"
)

// Catalog returns the ten probes of a scan in their canonical order.
// Fingerprints are only comparable when every scanner uses this exact list.
func Catalog(host string, port string) [C.ProbeCount]Specification {
	catalog := [C.ProbeCount]Specification{
		{Name: "tls1_2_forward", Version: TLS12, Ciphers: CipherAll, CipherOrder: mung.Forward, VersionHint: HintTLS12, ExtensionOrder: mung.Reverse},
		{Name: "tls1_2_reverse", Version: TLS12, Ciphers: CipherAll, CipherOrder: mung.Reverse, VersionHint: HintTLS12, ExtensionOrder: mung.Forward},
		{Name: "tls1_2_top_half", Version: TLS12, Ciphers: CipherAll, CipherOrder: mung.TopHalf, VersionHint: HintNone, ExtensionOrder: mung.Forward},
		{Name: "tls1_2_bottom_half", Version: TLS12, Ciphers: CipherAll, CipherOrder: mung.BottomHalf, RareALPN: true, VersionHint: HintNone, ExtensionOrder: mung.Forward},
		{Name: "tls1_2_middle_out", Version: TLS12, Ciphers: CipherAll, CipherOrder: mung.MiddleOut, Grease: true, RareALPN: true, VersionHint: HintNone, ExtensionOrder: mung.Reverse},
		{Name: "tls1_1_middle_out", Version: TLS11, Ciphers: CipherAll, CipherOrder: mung.Forward, VersionHint: HintNone, ExtensionOrder: mung.Forward},
		{Name: "tls1_3_forward", Version: TLS13, Ciphers: CipherAll, CipherOrder: mung.Forward, VersionHint: HintTLS13, ExtensionOrder: mung.Reverse},
		{Name: "tls1_3_reverse", Version: TLS13, Ciphers: CipherAll, CipherOrder: mung.Reverse, VersionHint: HintTLS13, ExtensionOrder: mung.Forward},
		{Name: "tls1_3_invalid", Version: TLS13, Ciphers: CipherNoTLS13, CipherOrder: mung.Forward, VersionHint: HintTLS13, ExtensionOrder: mung.Forward},
		{Name: "tls1_3_middle_out", Version: TLS13, Ciphers: CipherAll, CipherOrder: mung.MiddleOut, Grease: true, VersionHint: HintTLS13, ExtensionOrder: mung.Reverse},
	}
	for i := range catalog {
		catalog[i].Host = host
		catalog[i].Port = port
	}
	return catalog
}
