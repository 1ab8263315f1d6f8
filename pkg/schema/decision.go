package schema

// Decision is the control signal passed from the gate and the error policy
// back to the driver.
type Decision int

const (
	Proceed Decision = iota
	Skip
	Abort
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Skip:
		return "skip"
	case Abort:
		return "abort"
	}
	return "unknown"
}

// Outcome classifies a finished execution.
type Outcome int

const (
	// Clean: zero exit code and no diagnostic signature in the output.
	Clean Outcome = iota
	// Tainted: zero exit code but the output reports an error or warning.
	Tainted
	// Failed: non-zero exit code.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Clean:
		return "clean"
	case Tainted:
		return "tainted"
	case Failed:
		return "failed"
	}
	return "unknown"
}
