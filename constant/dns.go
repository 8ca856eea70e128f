package constant

import (
	"github.com/sagernet/sing/common"
	E "github.com/sagernet/sing/common/exceptions"
)

type DomainStrategy = uint8

const (
	DomainStrategyAsIS DomainStrategy = iota
	DomainStrategyPreferIPv4
	DomainStrategyPreferIPv6
	DomainStrategyIPv4Only
	DomainStrategyIPv6Only
)

var (
	domainStrategyToString = map[DomainStrategy]string{
		DomainStrategyAsIS:       "",
		DomainStrategyPreferIPv4: "prefer_ipv4",
		DomainStrategyPreferIPv6: "prefer_ipv6",
		DomainStrategyIPv4Only:   "ipv4_only",
		DomainStrategyIPv6Only:   "ipv6_only",
	}
	stringToDomainStrategy = common.ReverseMap(domainStrategyToString)
)

func FormatDomainStrategy(strategy DomainStrategy) string {
	return domainStrategyToString[strategy]
}

func ParseDomainStrategy(name string) (DomainStrategy, error) {
	strategy, loaded := stringToDomainStrategy[name]
	if !loaded {
		return DomainStrategyAsIS, E.New("unknown domain strategy: ", name)
	}
	return strategy, nil
}
