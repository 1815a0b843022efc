// Package runner drives a script through a pseudo-terminal session.
//
// A Driver spawns one shell per run, waits for its first prompt, and then
// for each step types the action and waits for the paired expectation
// before moving on. Steps never overlap: the keystrokes of step N are all
// written before step N's expectation starts reading output.
//
// A run is all-or-nothing. The first failure, whether a missing secret, a
// timed-out expectation or a process that cannot be found, aborts the
// run with a *StepError naming the step index and expectation kind, and
// the session is torn down. Cancelling the run context closes the session
// immediately, which unblocks any pending read.
//
// Secrets are looked up by name through EnvironmentLookup at send time.
// Their values are never logged, and the session mirror stays suppressed
// from the write until the step's expectation is met.
package runner
