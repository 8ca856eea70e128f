package constant

import "time"

const (
	DefaultProbeTimeout = 20 * time.Second
	DefaultDNSTimeout   = 5 * time.Second
	StoreOpenTimeout    = time.Second
)
