package constant

import E "github.com/sagernet/sing/common/exceptions"

var (
	ErrNoAddress     = E.New("no address resolved")
	ErrFieldOverflow = E.New("field value exceeds 255")
)
