// Package procwatch waits for the process started by a typed command.
//
// A shell prompt reappears as soon as a backgrounded or detached command is
// dispatched, so "the prompt is back" cannot mean "the command finished".
// The Tracker instead:
//
//  1. splits the command line into shell words and keeps the last word
//     that resolves on PATH,
//  2. polls the process table for processes with that name, choosing the
//     one whose start time is closest to when the command was sent,
//  3. polls that pid with the null signal until it disappears.
//
// The process table is reached through the ProcessQuery interface; PSQuery
// is the ps(1)-backed implementation. ps reports start times to the second,
// so when two same-named processes start within a second of each other the
// newer one is chosen.
package procwatch
