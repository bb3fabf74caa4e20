package api

import "cookierisk/internal/dispatch"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// URLRequest carries a page or endpoint URL.
type URLRequest struct {
	URL string `json:"url"`
}

// SessionState describes the orchestrator in a transport-friendly format.
type SessionState struct {
	Phase       string    `json:"phase"`
	Pending     int       `json:"pending"`
	Status      string    `json:"status"`
	Endpoint    string    `json:"endpoint"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	ExtractedAt string    `json:"extractedAt,omitempty"`
	RunID       string    `json:"runId,omitempty"`
	Outcomes    []Outcome `json:"outcomes"`
}

// Outcome is one scored cookie.
type Outcome struct {
	Name           string    `json:"name"`
	OK             bool      `json:"ok"`
	Level          *int      `json:"level,omitempty"`
	Label          string    `json:"label,omitempty"`
	Probabilities  []float64 `json:"probabilities,omitempty"`
	Error          string    `json:"error,omitempty"`
	DisplayMessage string    `json:"displayMessage"`
}

// ExtractResponse is returned by POST /api/extract.
type ExtractResponse struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Batch  []dispatch.Item `json:"batch"`
}

// PredictResponse is returned by POST /api/predict.
type PredictResponse struct {
	Status    string    `json:"status"`
	RunID     string    `json:"runId"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Outcomes  []Outcome `json:"outcomes"`
}

// MessageResponse acknowledges actions without a payload.
type MessageResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
