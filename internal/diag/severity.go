package diag

// Severity ranks a diagnostic. The numeric order matters: bag sorting and
// the driver's error gate compare severities directly, so levels are
// declared weakest first.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError marks a contract violation; any error in a bag fails the
	// check run.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
