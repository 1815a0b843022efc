// Package terminal runs a shell under a pseudo-terminal for the runner.
//
// A Session owns exactly one child process and its pty. Output is read by
// a single goroutine that mirrors it to a writer (stdout when recording)
// and appends it to a bounded Buffer that expectation matching consumes.
//
// Architecture:
//   - pty.StartWithSize spawns the shell with a controlling terminal
//   - readOutput copies pty output to the mirror, then to the Buffer
//   - monitorProcess reaps the shell and closes the pty after a short drain
//   - Close hangs up the shell (SIGHUP, then SIGKILL) and waits for both
//     goroutines, so no child outlives the session
//
// Mirroring can be suppressed for a scope with SuppressMirror, which is how
// secrets are typed without ending up in a recording.
//
// Example Usage:
//
//	sess, err := terminal.Start(terminal.Options{Shell: "bash", Mirror: os.Stdout})
//	if err != nil {
//		return err
//	}
//	defer sess.Close()
//	_, err = sess.Write([]byte("ls -la\r"))
package terminal
