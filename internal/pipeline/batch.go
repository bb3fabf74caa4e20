package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"cookierisk/internal/dispatch"
	"cookierisk/internal/sequence"
	"cookierisk/internal/services"
	"cookierisk/internal/state"
)

// EncodeValues turns persisted values into a batch, one item per value in order.
func EncodeValues(values []state.Value) []dispatch.Item {
	items := make([]dispatch.Item, len(values))
	for i, v := range values {
		items[i] = dispatch.Item{Name: v.Name, Sequence: sequence.Encode(v.Value)}
	}
	return items
}

// MarshalBatch renders a batch in its editable JSON form.
func MarshalBatch(items []dispatch.Item) ([]byte, error) {
	if items == nil {
		items = []dispatch.Item{}
	}
	return json.MarshalIndent(items, "", "  ")
}

type batchEntry struct {
	Name     string `json:"name"`
	Sequence *[]int `json:"sequence"`
}

// ParseBatch parses an edited batch. Anything other than a non-empty JSON
// array of {"name", "sequence"} objects is an input format error.
func ParseBatch(data []byte) ([]dispatch.Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, services.Wrap(services.ErrInputFormat, component, "parse batch", "empty input", nil)
	}
	if trimmed[0] != '[' {
		return nil, services.Wrap(services.ErrInputFormat, component, "parse batch", "expected a JSON array", nil)
	}
	var entries []*batchEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, services.Wrap(services.ErrInputFormat, component, "parse batch", "", err)
	}
	if len(entries) == 0 {
		return nil, services.Wrap(services.ErrInputFormat, component, "parse batch", "batch has no items", nil)
	}
	items := make([]dispatch.Item, len(entries))
	for i, entry := range entries {
		if entry == nil {
			return nil, services.Wrap(services.ErrInputFormat, component, "parse batch", fmt.Sprintf("item %d is null", i), nil)
		}
		if entry.Sequence == nil {
			return nil, services.Wrap(services.ErrInputFormat, component, "parse batch", fmt.Sprintf("item %d (%s) has no sequence", i, entry.Name), nil)
		}
		seq := *entry.Sequence
		if seq == nil {
			seq = []int{}
		}
		items[i] = dispatch.Item{Name: entry.Name, Sequence: seq}
	}
	return items, nil
}
