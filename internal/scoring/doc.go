// Package scoring talks to the remote risk classifier.
//
// A request carries one encoded sequence as {"sequence": [...]} and the
// classifier answers with a predicted class in [0, 4] and a five-way
// probability distribution over the ordinal risk labels. Responses are
// validated before they are returned; transport and shape problems are tagged
// with services.ErrTransport and services.ErrResponseShape respectively.
package scoring
