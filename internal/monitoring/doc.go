/*
Package monitoring collects Prometheus metrics for script runs.

# Overview

A recording run is a short-lived CLI process, so metrics live on a private
registry and are written out once at the end of the run rather than served.

# Metrics

  - runner_runs_total{status}, runner_run_duration_seconds
  - runner_steps_total{kind,status}, runner_step_duration_seconds{kind}
  - runner_keystrokes_total, runner_typos_total, runner_secrets_sent_total
  - runner_sessions_active

# Usage

	metrics := monitoring.NewMetrics()
	sim := typing.New(typing.WithObserver(metrics))
	...
	if err := metrics.WriteToTextfile("run.prom"); err != nil {
		return err
	}

All recording methods accept a nil receiver so callers can leave metrics
disabled.
*/
package monitoring
