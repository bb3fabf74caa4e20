package sequence

// PadToken names the reserved padding entry of every vocabulary.
const PadToken = "<PAD>"

// Vocabulary maps the characters of a single value to positive indices in
// first-occurrence order. Index PadIndex is never assigned to a character.
type Vocabulary struct {
	index map[rune]int
	order []rune
}

// Entry is one character and its assigned index.
type Entry struct {
	Char  rune `json:"char"`
	Index int  `json:"index"`
}

// BuildVocabulary scans the whole value, including characters past
// MaxLength, and numbers each distinct character from 1.
func BuildVocabulary(value string) Vocabulary {
	vocab := Vocabulary{index: make(map[rune]int)}
	for _, r := range value {
		if _, seen := vocab.index[r]; seen {
			continue
		}
		vocab.order = append(vocab.order, r)
		vocab.index[r] = len(vocab.order)
	}
	return vocab
}

// Index returns the index assigned to r.
func (v Vocabulary) Index(r rune) (int, bool) {
	idx, ok := v.index[r]
	return idx, ok
}

// Size reports the number of distinct characters, excluding PAD.
func (v Vocabulary) Size() int {
	return len(v.order)
}

// Entries lists the characters in index order.
func (v Vocabulary) Entries() []Entry {
	entries := make([]Entry, len(v.order))
	for i, r := range v.order {
		entries[i] = Entry{Char: r, Index: i + 1}
	}
	return entries
}
