package api

import (
	"cookierisk/internal/dispatch"
	"cookierisk/internal/pipeline"
	"cookierisk/internal/report"
)

// FromSnapshot converts an orchestrator snapshot to its API representation.
func FromSnapshot(snap pipeline.Snapshot) SessionState {
	dto := SessionState{
		Phase:     snap.Phase.String(),
		Pending:   snap.Pending,
		Status:    snap.Status,
		Endpoint:  snap.Endpoint,
		SourceURL: snap.SourceURL,
		RunID:     snap.RunID,
		Outcomes:  FromOutcomes(snap.Outcomes),
	}
	if !snap.ExtractedAt.IsZero() {
		dto.ExtractedAt = snap.ExtractedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromOutcome converts a dispatch outcome to its API representation.
func FromOutcome(outcome dispatch.Outcome) Outcome {
	dto := Outcome{
		Name:           outcome.Name,
		OK:             outcome.OK,
		DisplayMessage: report.RiskLine(outcome),
	}
	if !outcome.OK {
		dto.Error = outcome.Error
		return dto
	}
	level := outcome.Prediction.PredictedClass
	dto.Level = &level
	dto.Label = outcome.Label()
	dto.Probabilities = append([]float64(nil), outcome.Prediction.Probabilities...)
	return dto
}

// FromOutcomes converts outcomes preserving order. The result is never nil.
func FromOutcomes(outcomes []dispatch.Outcome) []Outcome {
	out := make([]Outcome, len(outcomes))
	for i, outcome := range outcomes {
		out[i] = FromOutcome(outcome)
	}
	return out
}
