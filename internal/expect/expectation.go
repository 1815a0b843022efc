package expect

import (
	"errors"
	"fmt"
	"regexp"
)

// Kind classifies what completes a step.
type Kind int

const (
	// Pattern waits for a regular expression to appear in the output.
	Pattern Kind = iota
	// Prompt waits for a generic shell prompt terminator.
	Prompt
	// EndOfProcess waits for the process started by the step's command to exit.
	EndOfProcess
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Pattern:
		return "pattern"
	case Prompt:
		return "prompt"
	case EndOfProcess:
		return "end-of-process"
	default:
		return "unknown"
	}
}

// Reserved tokens in a script's expect list.
const (
	PromptToken       = "prompt"
	EndOfProcessToken = "EOP"
)

// PromptPattern matches the conventional shell prompt terminators.
var PromptPattern = regexp.MustCompile(`[#$%]`)

var (
	ErrExpectationTimedOut = errors.New("expectation timed out")
	ErrSessionClosed       = errors.New("session closed before expectation was met")
	ErrNoTracker           = errors.New("no process tracker configured")
)

// Expectation is the condition that must hold before a step is done.
type Expectation struct {
	Kind    Kind
	Pattern *regexp.Regexp
	// Source is the token the expectation was parsed from.
	Source string
}

// Parse classifies an expect token. Anything other than the reserved
// tokens is compiled as a regular expression.
func Parse(token string) (Expectation, error) {
	switch token {
	case PromptToken:
		return ForPrompt(), nil
	case EndOfProcessToken:
		return ForEndOfProcess(), nil
	default:
		return ForPattern(token)
	}
}

// ForPrompt returns the generic prompt expectation.
func ForPrompt() Expectation {
	return Expectation{Kind: Prompt, Pattern: PromptPattern, Source: PromptToken}
}

// ForEndOfProcess returns the end-of-process expectation.
func ForEndOfProcess() Expectation {
	return Expectation{Kind: EndOfProcess, Source: EndOfProcessToken}
}

// ForPattern compiles pattern into a Pattern expectation.
func ForPattern(pattern string) (Expectation, error) {
	if pattern == "" {
		return Expectation{}, fmt.Errorf("empty pattern")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Expectation{}, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return Expectation{Kind: Pattern, Pattern: re, Source: pattern}, nil
}

// Describe returns a human-readable description for logs and errors.
func (e Expectation) Describe() string {
	switch e.Kind {
	case Prompt:
		return "output to show a shell prompt"
	case EndOfProcess:
		return "command's process to exit"
	default:
		return fmt.Sprintf("output to match regexp %q", e.Source)
	}
}
