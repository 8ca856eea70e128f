package option

import (
	"strconv"

	E "github.com/sagernet/sing/common/exceptions"
	M "github.com/sagernet/sing/common/metadata"
)

func checkOptions(options *Options) error {
	if options.Scan != nil {
		if options.Scan.Port != "" {
			err := checkPort(options.Scan.Port)
			if err != nil {
				return E.Cause(err, "scan")
			}
		}
		if options.Scan.Timeout < 0 {
			return E.New("scan: negative timeout")
		}
	}
	if options.Resolver != nil && options.Resolver.Server != "" {
		server := M.ParseSocksaddr(options.Resolver.Server)
		if !server.IsValid() {
			return E.New("resolver: invalid server address: ", options.Resolver.Server)
		}
	}
	if options.Store != nil && options.Store.Enabled && options.Store.Path == "" {
		return E.New("store: missing path")
	}
	return nil
}

func checkPort(port string) error {
	value, err := strconv.ParseUint(port, 10, 16)
	if err != nil || value == 0 {
		return E.New("invalid port: ", port)
	}
	return nil
}
