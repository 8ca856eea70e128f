package constant

const (
	DefaultPort        = "443"
	ProbeCount         = 10
	ResponseBufferSize = 1484
	FingerprintLength  = 62
	FuzzyLength        = 30
)
