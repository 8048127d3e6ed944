package deploy

import "github.com/cockroachdb/errors"

// Processor selects which function kind(s) a deployment covers.
type Processor int

const (
	ProcessorRule Processor = iota
	ProcessorAlert
	ProcessorAll
)

var processorNames = [...]string{
	ProcessorRule:  "rule",
	ProcessorAlert: "alert",
	ProcessorAll:   "all",
}

func (p Processor) String() string {
	if int(p) < len(processorNames) {
		return processorNames[p]
	}
	return "processor(?)"
}

// ParseProcessor maps an operator-supplied selector to a Processor. An
// unrecognized selector is a configuration error, never a silent no-op.
func ParseProcessor(s string) (Processor, error) {
	switch s {
	case "rule":
		return ProcessorRule, nil
	case "alert":
		return ProcessorAlert, nil
	case "all":
		return ProcessorAll, nil
	default:
		return 0, errors.Newf("processor must be one of rule, alert, all; got %q", s)
	}
}
