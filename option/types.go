package option

import (
	C "github.com/sagernet/sing-jarm/constant"
	"github.com/sagernet/sing/common/json"
)

type DomainStrategy C.DomainStrategy

func (s DomainStrategy) String() string {
	return C.FormatDomainStrategy(C.DomainStrategy(s))
}

func (s DomainStrategy) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DomainStrategy) UnmarshalJSON(bytes []byte) error {
	var value string
	err := json.Unmarshal(bytes, &value)
	if err != nil {
		return err
	}
	strategy, err := C.ParseDomainStrategy(value)
	if err != nil {
		return err
	}
	*s = DomainStrategy(strategy)
	return nil
}
