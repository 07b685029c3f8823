package bit

// Verdict is the outcome of validating a Buffer against its checksum.
type Verdict uint8

const (
	Unchecked Verdict = iota
	Passed
	Corrected
	Failed
)

var verdictName = [...]string{
	Unchecked: "unchecked",
	Passed:    "passed",
	Corrected: "corrected",
	Failed:    "failed",
}

func (v Verdict) String() string {
	if int(v) < len(verdictName) {
		return verdictName[v]
	}
	return "invalid"
}

// Final reports whether no further verdict may be recorded.
func (v Verdict) Final() bool {
	return v == Passed || v == Failed
}

// OK reports whether the content can be trusted.
func (v Verdict) OK() bool {
	return v == Passed || v == Corrected
}
