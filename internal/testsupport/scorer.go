package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// ScoreFunc answers one scoring request. Returning a non-zero status makes
// the fake scorer reply with that HTTP error instead.
type ScoreFunc func(sequence []int) (class int, status int)

// Scorer is a fake scoring endpoint backed by httptest.
type Scorer struct {
	*httptest.Server

	mu       sync.Mutex
	requests [][]int
}

// NewScorer starts a fake scorer. A nil fn classifies every sequence as
// class len(sequence) % 5.
func NewScorer(t testing.TB, fn ScoreFunc) *Scorer {
	t.Helper()

	if fn == nil {
		fn = func(sequence []int) (int, int) { return len(sequence) % 5, 0 }
	}
	s := &Scorer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Sequence []int `json:"sequence"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.requests = append(s.requests, body.Sequence)
		s.mu.Unlock()

		class, status := fn(body.Sequence)
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		probs := make([]float64, 5)
		if class >= 0 && class < len(probs) {
			probs[class] = 0.8
			for i := range probs {
				if i != class {
					probs[i] = 0.05
				}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"predicted_class": class,
			"probabilities":   probs,
		})
	}))
	t.Cleanup(s.Close)
	return s
}

// Requests returns the sequences received so far.
func (s *Scorer) Requests() [][]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]int, len(s.requests))
	copy(out, s.requests)
	return out
}
