// Package expect decides when a scripted step is done.
//
// An expect token from a script is one of:
//   - "prompt": the shell shows one of '#', '$' or '%'
//   - "EOP": the process the step's command started has exited
//   - anything else: a regular expression that must match the output
//
// Prompt and pattern expectations read the session output. The
// end-of-process expectation never reads output; a shell prompt comes
// back as soon as a backgrounded command is dispatched, so it cannot
// signal that the command finished. That case is delegated to a
// ProcessAwaiter.
//
// Example:
//
//	exp, err := expect.Parse("Downloaded [0-9]+ files")
//	m := expect.NewMatcher(tracker, logger)
//	err = m.Await(ctx, session, exp, expect.Sent{Command: cmd, At: t}, 30*time.Second)
package expect
