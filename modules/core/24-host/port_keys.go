package host

const (
	KeyPortPrefix = "ports"
)
