package scoring

import (
	"errors"
	"fmt"
)

// ClassCount is the number of ordinal risk classes.
const ClassCount = 5

// Labels names the risk classes in index order.
var Labels = [ClassCount]string{"very low", "low", "average", "high", "very high"}

// Request is the wire body posted for one cookie.
type Request struct {
	Sequence []int `json:"sequence"`
}

// Prediction is a validated classifier answer.
type Prediction struct {
	PredictedClass int       `json:"predicted_class"`
	Probabilities  []float64 `json:"probabilities"`
}

// rawPrediction keeps missing fields distinguishable from zero values.
type rawPrediction struct {
	PredictedClass *int       `json:"predicted_class"`
	Probabilities  []*float64 `json:"probabilities"`
}

func (r rawPrediction) prediction() (Prediction, error) {
	if r.PredictedClass == nil {
		return Prediction{}, errors.New("missing predicted_class")
	}
	if r.Probabilities == nil {
		return Prediction{}, errors.New("missing probabilities")
	}
	probs := make([]float64, len(r.Probabilities))
	for i, v := range r.Probabilities {
		if v == nil {
			return Prediction{}, fmt.Errorf("probabilities[%d] is null", i)
		}
		probs[i] = *v
	}
	p := Prediction{PredictedClass: *r.PredictedClass, Probabilities: probs}
	return p, p.Validate()
}

// Validate checks the class range and distribution length.
func (p Prediction) Validate() error {
	if p.PredictedClass < 0 || p.PredictedClass >= ClassCount {
		return fmt.Errorf("predicted_class %d outside [0,%d]", p.PredictedClass, ClassCount-1)
	}
	if len(p.Probabilities) != ClassCount {
		return fmt.Errorf("expected %d probabilities, got %d", ClassCount, len(p.Probabilities))
	}
	return nil
}

// Label returns the risk label for the predicted class.
func (p Prediction) Label() string {
	return LabelFor(p.PredictedClass)
}

// LabelFor returns the label of class, or "unknown" when out of range.
func LabelFor(class int) string {
	if class < 0 || class >= ClassCount {
		return "unknown"
	}
	return Labels[class]
}
