// Package geoip annotates resolved addresses with a country code read from a
// MaxMind database.
package geoip

import (
	"net/netip"
	"strings"

	E "github.com/sagernet/sing/common/exceptions"

	"github.com/oschwald/maxminddb-golang"
)

const databaseTypeSing = "sing-geoip"

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	RegisteredCountry struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"registered_country"`
}

// Reader accepts GeoLite2/GeoIP2 country databases and sing-geoip files.
type Reader struct {
	reader *maxminddb.Reader
	plain  bool
}

func Open(path string) (*Reader, error) {
	database, err := maxminddb.Open(path)
	if err != nil {
		return nil, E.Cause(err, "open geoip database at ", path)
	}
	databaseType := database.Metadata.DatabaseType
	if databaseType != databaseTypeSing && !strings.Contains(databaseType, "Country") {
		database.Close()
		return nil, E.New("incorrect database type, expected a country database, got ", databaseType)
	}
	return &Reader{database, databaseType == databaseTypeSing}, nil
}

// Lookup returns the upper case ISO code for addr, or an empty string.
func (r *Reader) Lookup(addr netip.Addr) string {
	if r == nil || !addr.IsValid() {
		return ""
	}
	addr = addr.Unmap()
	if r.plain {
		var code string
		err := r.reader.Lookup(addr.AsSlice(), &code)
		if err != nil {
			return ""
		}
		return strings.ToUpper(code)
	}
	var record countryRecord
	err := r.reader.Lookup(addr.AsSlice(), &record)
	if err != nil {
		return ""
	}
	if record.Country.ISOCode != "" {
		return record.Country.ISOCode
	}
	return record.RegisteredCountry.ISOCode
}

func (r *Reader) Close() error {
	if r == nil {
		return nil
	}
	return r.reader.Close()
}
