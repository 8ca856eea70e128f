package jarm

import (
	"time"

	"github.com/sagernet/sing-jarm/fingerprint"
	"github.com/sagernet/sing-jarm/serverhello"
	"github.com/sagernet/sing/common/json/badoption"

	"github.com/gofrs/uuid/v5"
)

// Result is the record of one completed scan.
type Result struct {
	ID          uuid.UUID            `json:"id"`
	Host        string               `json:"host"`
	Port        string               `json:"port"`
	Address     string               `json:"address"`
	Fingerprint string               `json:"fingerprint"`
	Raw         []serverhello.Result `json:"raw"`
	Match       *fingerprint.Match   `json:"match,omitempty"`
	Country     string               `json:"country,omitempty"`
	ScannedAt   time.Time            `json:"scanned_at"`
	Duration    badoption.Duration   `json:"duration"`
}

// Target is the host:port key results are indexed by.
func (r *Result) Target() string {
	return Target(r.Host, r.Port)
}
