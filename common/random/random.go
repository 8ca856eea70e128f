package random

import (
	"crypto/rand"

	"github.com/sagernet/sing/common"
)

// GreaseValues are the sixteen reserved GREASE code points.
var GreaseValues = [16][2]byte{
	{0x0a, 0x0a}, {0x1a, 0x1a}, {0x2a, 0x2a}, {0x3a, 0x3a},
	{0x4a, 0x4a}, {0x5a, 0x5a}, {0x6a, 0x6a}, {0x7a, 0x7a},
	{0x8a, 0x8a}, {0x9a, 0x9a}, {0xaa, 0xaa}, {0xba, 0xba},
	{0xca, 0xca}, {0xda, 0xda}, {0xea, 0xea}, {0xfa, 0xfa},
}

// Source supplies client randoms, session IDs, key shares and GREASE values.
// Implementations must be safe for concurrent use.
type Source interface {
	Bytes() [32]byte
	Grease() [2]byte
}

var _ Source = (*secureSource)(nil)

type secureSource struct{}

func NewSecure() Source {
	return secureSource{}
}

func (secureSource) Bytes() [32]byte {
	var output [32]byte
	common.Must1(rand.Read(output[:]))
	return output
}

func (secureSource) Grease() [2]byte {
	var index [1]byte
	common.Must1(rand.Read(index[:]))
	return GreaseValues[index[0]%byte(len(GreaseValues))]
}

var _ Source = Fixed{}

// Fixed returns constant output and is meant for reproducible packets.
type Fixed struct {
	Fill        byte
	GreaseValue [2]byte
}

func NewFixed() Fixed {
	return Fixed{
		Fill:        '*',
		GreaseValue: GreaseValues[0],
	}
}

func (f Fixed) Bytes() [32]byte {
	var output [32]byte
	for i := range output {
		output[i] = f.Fill
	}
	return output
}

func (f Fixed) Grease() [2]byte {
	return f.GreaseValue
}
