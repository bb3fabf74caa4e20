package pipeline

import "fmt"

// Phase is the orchestrator's position in the session lifecycle.
type Phase int

const (
	// PhaseIdle means no cookies are stored and nothing has been extracted.
	PhaseIdle Phase = iota
	// PhaseExtracting is set while a cookie source is being read.
	PhaseExtracting
	// PhaseReady holds a pending batch, possibly empty after a failed extraction.
	PhaseReady
	// PhasePredicting is set while the batch is dispatched to the scorer.
	PhasePredicting
	// PhaseDisplayed holds the outcomes of the last predict run.
	PhaseDisplayed
)

var phaseNames = [...]string{"idle", "extracting", "ready", "predicting", "displayed"}

// String returns the lower-case phase name, or phase(N) for unknown values.
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText renders the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
