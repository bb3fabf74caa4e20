// Package dispatch fans a batch of encoded cookies out to the scoring endpoint.
//
// Every item gets its own POST and its own deadline. Items never cancel each
// other: a failed request becomes a Failure outcome at that item's position
// while the rest of the batch completes. Dispatch waits for every request
// before returning the ordered outcome list.
package dispatch
