package dispatch

import "cookierisk/internal/scoring"

// Item is one cookie ready for scoring.
type Item struct {
	Name     string `json:"name"`
	Sequence []int  `json:"sequence"`
}

// Outcome is the per-item result of a dispatch. Exactly one of Prediction or
// Error is meaningful, selected by OK.
type Outcome struct {
	Name       string             `json:"name"`
	OK         bool               `json:"ok"`
	Prediction scoring.Prediction `json:"prediction,omitzero"`
	Error      string             `json:"error,omitempty"`
}

// Success builds a successful outcome.
func Success(name string, prediction scoring.Prediction) Outcome {
	return Outcome{Name: name, OK: true, Prediction: prediction}
}

// Failure builds a failed outcome carrying a display message.
func Failure(name string, message string) Outcome {
	return Outcome{Name: name, Error: message}
}

// Label returns the risk label of a successful outcome.
func (o Outcome) Label() string {
	if !o.OK {
		return ""
	}
	return o.Prediction.Label()
}

// Summary counts successes and failures.
func Summary(outcomes []Outcome) (succeeded, failed int) {
	for _, outcome := range outcomes {
		if outcome.OK {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
