package option

import (
	"github.com/sagernet/sing/common/json"
	"github.com/sagernet/sing/common/json/badoption"
)

type _Options struct {
	RawMessage   json.RawMessage     `json:"-"`
	Schema       string              `json:"$schema,omitempty"`
	Log          *LogOptions         `json:"log,omitempty"`
	Scan         *ScanOptions        `json:"scan,omitempty"`
	Resolver     *ResolverOptions    `json:"resolver,omitempty"`
	Proxy        *ProxyOptions       `json:"proxy,omitempty"`
	Store        *StoreOptions       `json:"store,omitempty"`
	GeoIP        *GeoIPOptions       `json:"geoip,omitempty"`
	Fingerprints *FingerprintOptions `json:"fingerprints,omitempty"`
}

type Options _Options

func (o *Options) UnmarshalJSON(content []byte) error {
	err := json.UnmarshalDisallowUnknownFields(content, (*_Options)(o))
	if err != nil {
		return err
	}
	o.RawMessage = content
	return checkOptions(o)
}

type LogOptions struct {
	Disabled     bool   `json:"disabled,omitempty"`
	Level        string `json:"level,omitempty"`
	Output       string `json:"output,omitempty"`
	Timestamp    bool   `json:"timestamp,omitempty"`
	DisableColor bool   `json:"-"`
}

type ScanOptions struct {
	Targets  badoption.Listable[string] `json:"targets,omitempty"`
	Port     string                     `json:"port,omitempty"`
	Timeout  badoption.Duration         `json:"timeout,omitempty"`
	Parallel bool                       `json:"parallel,omitempty"`
}

type ResolverOptions struct {
	Server   string             `json:"server,omitempty"`
	Strategy DomainStrategy     `json:"strategy,omitempty"`
	Timeout  badoption.Duration `json:"timeout,omitempty"`
}

type ProxyOptions struct {
	URL string `json:"url,omitempty"`
}

type StoreOptions struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

type GeoIPOptions struct {
	Path string `json:"path,omitempty"`
}

type FingerprintOptions struct {
	Path    string            `json:"path,omitempty"`
	Entries map[string]string `json:"entries,omitempty"`
}
