// Package sequence turns short text values into the integer sequences the
// risk classifier consumes.
//
// Every value gets its own vocabulary: characters are numbered from 1 in the
// order they first appear, and 0 is reserved for padding. Sequences are capped
// at MaxLength entries and transmitted without trailing padding, so a sequence
// is as long as its value up to the cap. Nothing is cached between calls; the
// same character can receive different indices in different values.
package sequence
