// Command runner replays a script of shell commands in a pseudo-terminal
// with human typing, for recording terminal sessions.
//
//	runner run demo.yaml
//	runner check-config demo.yaml
//
// Scripts are read from the data directory: RUNNER_DATA_DIR by default,
// /data when running inside a container, or /project with --docker.
// Session output goes to stdout and logs go to stderr.
package main
