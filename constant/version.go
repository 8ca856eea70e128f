package constant

var (
	Version = "unknown"
	Commit  = ""
)
