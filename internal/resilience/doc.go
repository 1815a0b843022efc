/*
Package resilience provides a circuit breaker for calls to flaky local
dependencies, such as the process table listing the tracker polls.

# States

	Closed    calls pass; consecutive failures are counted
	Open      calls are refused with ErrCircuitOpen until the cooldown ends
	Half-open one trial call passes; success closes, failure reopens

# Usage

	breaker := resilience.New("ps", resilience.Settings{
		FailureThreshold: 3,
		Cooldown:         5 * time.Second,
	})

	if err := breaker.Allow(); err != nil {
		return err
	}
	out, err := list()
	breaker.Record(err)
*/
package resilience
