package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cookierisk/internal/cookies"
	"cookierisk/internal/dispatch"
	"cookierisk/internal/logging"
	"cookierisk/internal/scoring"
	"cookierisk/internal/services"
	"cookierisk/internal/state"
)

const component = "pipeline"

// Status messages shown to the user.
const (
	StatusNoCookies   = "No cookies found for this domain"
	StatusNoEndpoint  = "API URL not defined"
	StatusBadInput    = "Invalid data format"
	StatusPredicted   = "All predictions received"
	StatusCleared     = "Data cleared"
	StatusEndpointSet = "API URL saved"
)

// Store persists the saved endpoint and the extracted values.
type Store interface {
	Load(ctx context.Context) (state.State, error)
	SaveEndpoint(ctx context.Context, url string) error
	SaveValues(ctx context.Context, sourceURL string, values []state.Value) error
	ClearValues(ctx context.Context) error
}

// Dispatcher scores a batch.
type Dispatcher interface {
	Dispatch(ctx context.Context, items []dispatch.Item, endpoint string) []dispatch.Outcome
}

// Options wires an Orchestrator.
type Options struct {
	Store      Store
	Source     cookies.Source
	Dispatcher Dispatcher
	// FallbackEndpoint is used when no endpoint has been saved.
	FallbackEndpoint string
	Logger           *slog.Logger
}

// Snapshot is a point-in-time view of the orchestrator.
type Snapshot struct {
	Phase       Phase              `json:"phase"`
	Pending     int                `json:"pending"`
	Status      string             `json:"status"`
	Endpoint    string             `json:"endpoint"`
	SourceURL   string             `json:"source_url,omitempty"`
	ExtractedAt time.Time          `json:"extracted_at,omitzero"`
	RunID       string             `json:"run_id,omitempty"`
	Outcomes    []dispatch.Outcome `json:"outcomes,omitempty"`
}

// Orchestrator coordinates extraction, persistence and prediction.
type Orchestrator struct {
	store      Store
	source     cookies.Source
	dispatcher Dispatcher
	fallback   string
	logger     *slog.Logger

	// opMu serializes operations; mu guards the fields below.
	opMu        sync.Mutex
	mu          sync.RWMutex
	phase       Phase
	status      string
	endpoint    string
	sourceURL   string
	extractedAt time.Time
	batch       []dispatch.Item
	outcomes    []dispatch.Outcome
	runID       string
}

// New constructs an orchestrator in the Idle phase.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		store:      opts.Store,
		source:     opts.Source,
		dispatcher: opts.Dispatcher,
		fallback:   strings.TrimSpace(opts.FallbackEndpoint),
		logger:     logging.NewComponentLogger(opts.Logger, component),
	}
}

// Load restores persisted state. Stored values put the orchestrator in Ready.
func (o *Orchestrator) Load(ctx context.Context) error {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	st, err := o.store.Load(ctx)
	if err != nil {
		return services.Wrap(services.ErrExtraction, component, "load state", "", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.endpoint = st.SavedAPIURL
	o.sourceURL = st.SourceURL
	o.extractedAt = st.ExtractedAt
	o.outcomes = nil
	if len(st.Values) == 0 {
		o.phase = PhaseIdle
		o.batch = nil
		o.status = ""
		return nil
	}
	o.batch = EncodeValues(st.Values)
	o.phase = PhaseReady
	o.status = fmt.Sprintf("%d cookies available", len(o.batch))
	return nil
}

// Extract reads the cookies for pageURL's host, persists them and encodes
// the pending batch. On failure the pending batch is emptied, the status
// carries the message and persisted values are left as they were.
func (o *Orchestrator) Extract(ctx context.Context, pageURL string) ([]dispatch.Item, error) {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	o.setPhase(PhaseExtracting, "")
	logger := logging.WithContext(ctx, o.logger)

	host, err := cookies.HostFromURL(pageURL)
	if err != nil {
		return nil, o.failExtraction(logger, err, err.Error())
	}
	if o.source == nil {
		err := services.Wrap(services.ErrConfiguration, component, "extract", "no cookie source configured", nil)
		return nil, o.failExtraction(logger, err, err.Error())
	}
	found, err := cookies.ForPage(o.source, pageURL).Cookies(ctx, host)
	if err != nil {
		if services.Kind(err) == nil {
			err = services.Wrap(services.ErrExtraction, component, "read cookies", o.source.Name(), err)
		}
		return nil, o.failExtraction(logger, err, "Extraction failed: "+err.Error())
	}
	if len(found) == 0 {
		err := services.Wrap(services.ErrExtraction, component, "read cookies", "no cookies for "+host, nil)
		return nil, o.failExtraction(logger, err, StatusNoCookies)
	}

	values := make([]state.Value, len(found))
	for i, c := range found {
		values[i] = state.Value{Name: c.Name, Value: c.Value}
	}
	if err := o.store.SaveValues(ctx, pageURL, values); err != nil {
		wrapped := services.Wrap(services.ErrExtraction, component, "persist values", "", err)
		return nil, o.failExtraction(logger, wrapped, "Extraction failed: "+wrapped.Error())
	}

	batch := EncodeValues(values)
	o.mu.Lock()
	o.batch = batch
	o.outcomes = nil
	o.sourceURL = pageURL
	o.extractedAt = time.Now().UTC()
	o.phase = PhaseReady
	o.status = fmt.Sprintf("%d cookies extracted", len(batch))
	o.mu.Unlock()

	logger.Info("cookies extracted",
		logging.String("host", host),
		logging.String("source", o.source.Name()),
		logging.Int("count", len(batch)),
	)
	return cloneBatch(batch), nil
}

func (o *Orchestrator) failExtraction(logger *slog.Logger, err error, status string) error {
	o.mu.Lock()
	o.batch = []dispatch.Item{}
	o.outcomes = nil
	o.phase = PhaseReady
	o.status = status
	o.mu.Unlock()

	logging.WarnWithContext(logger, "cookie extraction failed", "extraction_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check cookies.source and cookies.path"),
		logging.String(logging.FieldImpact, "no cookies are pending for prediction"),
	)
	return err
}

// Batch returns a copy of the pending batch.
func (o *Orchestrator) Batch() []dispatch.Item {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return cloneBatch(o.batch)
}

// BatchJSON returns the pending batch in its editable JSON form.
func (o *Orchestrator) BatchJSON() ([]byte, error) {
	return MarshalBatch(o.Batch())
}

// ParseBatch parses an edited batch and records the status on failure.
func (o *Orchestrator) ParseBatch(data []byte) ([]dispatch.Item, error) {
	items, err := ParseBatch(data)
	if err != nil {
		o.mu.Lock()
		o.status = StatusBadInput
		o.mu.Unlock()
		return nil, err
	}
	return items, nil
}

// Predict dispatches batch, or the pending batch when batch is nil, to the
// saved endpoint. Per-item failures are outcomes, not errors; the phase always
// ends in Displayed once dispatch starts.
func (o *Orchestrator) Predict(ctx context.Context, batch []dispatch.Item) ([]dispatch.Outcome, error) {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	if batch == nil {
		batch = o.Batch()
	}
	if len(batch) == 0 {
		o.setStatus(StatusBadInput)
		return nil, services.Wrap(services.ErrInputFormat, component, "predict", "no cookies to score", nil)
	}
	endpoint := o.Endpoint()
	if endpoint == "" {
		o.setStatus(StatusNoEndpoint)
		return nil, services.Wrap(services.ErrNoEndpoint, component, "predict", "", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, o.logger)

	o.mu.Lock()
	o.phase = PhasePredicting
	o.status = fmt.Sprintf("Scoring %d cookies", len(batch))
	o.runID = runID
	o.mu.Unlock()

	logger.Info("prediction started", logging.Int("items", len(batch)), logging.String("endpoint", endpoint))
	outcomes := o.dispatcher.Dispatch(ctx, batch, endpoint)
	succeeded, failed := dispatch.Summary(outcomes)
	logger.Info("prediction finished", logging.Int("succeeded", succeeded), logging.Int("failed", failed))

	o.mu.Lock()
	o.outcomes = outcomes
	o.phase = PhaseDisplayed
	o.status = StatusPredicted
	o.mu.Unlock()
	return cloneOutcomes(outcomes), nil
}

// Clear drops persisted values and the pending batch. The saved endpoint stays.
func (o *Orchestrator) Clear(ctx context.Context) error {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	if err := o.store.ClearValues(ctx); err != nil {
		wrapped := services.Wrap(services.ErrExtraction, component, "clear values", "", err)
		o.setStatus(wrapped.Error())
		return wrapped
	}
	o.mu.Lock()
	o.batch = nil
	o.outcomes = nil
	o.sourceURL = ""
	o.extractedAt = time.Time{}
	o.runID = ""
	o.phase = PhaseIdle
	o.status = StatusCleared
	o.mu.Unlock()
	logging.WithContext(ctx, o.logger).Info("stored cookies cleared")
	return nil
}

// SaveEndpoint validates and persists the scoring endpoint.
func (o *Orchestrator) SaveEndpoint(ctx context.Context, url string) error {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	url = strings.TrimSpace(url)
	if err := scoring.ValidateEndpoint(url); err != nil {
		if errors.Is(err, services.ErrNoEndpoint) {
			o.setStatus(StatusNoEndpoint)
		} else {
			o.setStatus(err.Error())
		}
		return err
	}
	if err := o.store.SaveEndpoint(ctx, url); err != nil {
		wrapped := services.Wrap(services.ErrConfiguration, component, "save endpoint", "", err)
		o.setStatus(wrapped.Error())
		return wrapped
	}
	o.mu.Lock()
	o.endpoint = url
	o.status = StatusEndpointSet
	o.mu.Unlock()
	logging.WithContext(ctx, o.logger).Info("scoring endpoint saved", logging.String("endpoint", url))
	return nil
}

// Endpoint returns the saved endpoint, or the fallback when none is saved.
func (o *Orchestrator) Endpoint() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.endpoint != "" {
		return o.endpoint
	}
	return o.fallback
}

// Snapshot returns the current phase, counts, status and outcomes.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.RLock()
	snap := Snapshot{
		Phase:       o.phase,
		Pending:     len(o.batch),
		Status:      o.status,
		SourceURL:   o.sourceURL,
		ExtractedAt: o.extractedAt,
		RunID:       o.runID,
		Outcomes:    cloneOutcomes(o.outcomes),
	}
	o.mu.RUnlock()
	snap.Endpoint = o.Endpoint()
	return snap
}

func (o *Orchestrator) setPhase(phase Phase, status string) {
	o.mu.Lock()
	o.phase = phase
	o.status = status
	o.mu.Unlock()
}

func (o *Orchestrator) setStatus(status string) {
	o.mu.Lock()
	o.status = status
	o.mu.Unlock()
}

func cloneBatch(items []dispatch.Item) []dispatch.Item {
	if items == nil {
		return nil
	}
	out := make([]dispatch.Item, len(items))
	for i, item := range items {
		out[i] = dispatch.Item{Name: item.Name, Sequence: append([]int(nil), item.Sequence...)}
		if out[i].Sequence == nil {
			out[i].Sequence = []int{}
		}
	}
	return out
}

func cloneOutcomes(outcomes []dispatch.Outcome) []dispatch.Outcome {
	if outcomes == nil {
		return nil
	}
	out := make([]dispatch.Outcome, len(outcomes))
	copy(out, outcomes)
	return out
}
