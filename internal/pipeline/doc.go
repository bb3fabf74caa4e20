// Package pipeline drives one cookie risk session through its phases:
// Idle, Extracting, Ready, Predicting and Displayed.
//
// The Orchestrator owns the pending batch, the saved endpoint and the last
// set of outcomes. It reads cookies through a cookies.Source, persists the
// raw values through a Store, encodes them with the sequence package and
// hands the batch to a dispatcher.
package pipeline
