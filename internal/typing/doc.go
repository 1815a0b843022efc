// Package typing simulates a human at the keyboard.
//
// Each character is followed by a delay of 120-170ms, shortened by 30-60ms
// when the bigram alternates hands. Roughly 1-3% of letters are first
// mistyped as a neighboring QWERTY key and corrected with a backspace.
// Secrets skip all of this and are written in one piece with the session
// mirror suppressed.
package typing
