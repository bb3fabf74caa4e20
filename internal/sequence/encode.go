package sequence

const (
	// MaxLength is the fixed classifier input length.
	MaxLength = 128
	// PadIndex fills positions past the end of a short value.
	PadIndex = 0
)

// Encode maps value through its own vocabulary and returns at most MaxLength
// indices. Padding is stripped, so every element is >= 1. An empty value
// yields an empty, non-nil sequence.
func Encode(value string) []int {
	padded := Padded(value)
	out := make([]int, 0, len(padded))
	for _, idx := range padded {
		if idx == PadIndex {
			continue
		}
		out = append(out, idx)
	}
	return out
}

// Padded returns the MaxLength sequence before padding is removed. The
// vocabulary is built and applied over the full value; truncation happens last.
func Padded(value string) []int {
	padded := make([]int, MaxLength)
	copy(padded, mapAll(value))
	return padded
}

func mapAll(value string) []int {
	if value == "" {
		return nil
	}
	vocab := BuildVocabulary(value)
	raw := make([]int, 0, len(value))
	for _, r := range value {
		idx, ok := vocab.Index(r)
		if !ok {
			idx = PadIndex
		}
		raw = append(raw, idx)
	}
	return raw
}
