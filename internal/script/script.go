package script

import (
	"fmt"

	"github.com/GriffinCanCode/goodbot/internal/expect"
)

// ActionKind distinguishes typed commands from secrets.
type ActionKind int

const (
	ActionCommand ActionKind = iota
	ActionSecret
)

// String returns the string representation of the kind
func (k ActionKind) String() string {
	switch k {
	case ActionCommand:
		return "command"
	case ActionSecret:
		return "secret"
	default:
		return "unknown"
	}
}

// Action is what a step sends: literal command text, or the name of an
// environment variable whose value is sent as a secret.
type Action struct {
	kind  ActionKind
	value string
}

// Command returns an action that types text.
func Command(text string) Action {
	return Action{kind: ActionCommand, value: text}
}

// Secret returns an action that sends the value of env var envKey.
func Secret(envKey string) Action {
	return Action{kind: ActionSecret, value: envKey}
}

// Kind returns the action kind.
func (a Action) Kind() ActionKind { return a.kind }

// IsSecret reports whether the action sends a secret.
func (a Action) IsSecret() bool { return a.kind == ActionSecret }

// Text returns the command text; empty for secrets.
func (a Action) Text() string {
	if a.kind != ActionCommand {
		return ""
	}
	return a.value
}

// EnvKey returns the environment variable name; empty for commands.
func (a Action) EnvKey() string {
	if a.kind != ActionSecret {
		return ""
	}
	return a.value
}

// String is safe to log: secrets print their variable name only.
func (a Action) String() string {
	if a.kind == ActionSecret {
		return fmt.Sprintf("secret(%s)", a.value)
	}
	return a.value
}

// Step is one action and the expectation that completes it.
type Step struct {
	Action Action
	Expect expect.Expectation
}

// Script is an ordered list of steps; index order is execution order.
type Script struct {
	Steps []Step
}

// New pairs actions with expectations by index.
func New(actions []Action, expectations []expect.Expectation) (*Script, error) {
	if len(actions) != len(expectations) {
		return nil, &ConfigShapeError{
			Field:  "expect",
			Index:  -1,
			Reason: fmt.Sprintf("has %d entries but commands has %d", len(expectations), len(actions)),
		}
	}

	steps := make([]Step, len(actions))
	for i := range actions {
		// A secret starts no process, so there is nothing to wait on.
		if actions[i].IsSecret() && expectations[i].Kind == expect.EndOfProcess {
			return nil, &ConfigShapeError{
				Field:  "expect",
				Index:  i,
				Reason: fmt.Sprintf("%s cannot follow a secret", expect.EndOfProcessToken),
			}
		}
		steps[i] = Step{Action: actions[i], Expect: expectations[i]}
	}
	return &Script{Steps: steps}, nil
}

// Len returns the number of steps.
func (s *Script) Len() int { return len(s.Steps) }

// Summary counts steps by what they do.
type Summary struct {
	Steps         int
	Secrets       int
	Prompts       int
	Patterns      int
	EndOfProcess  int
	SecretEnvKeys []string
}

// Summarize returns counts for display by check-config.
func (s *Script) Summarize() Summary {
	sum := Summary{Steps: len(s.Steps)}
	for _, step := range s.Steps {
		if step.Action.IsSecret() {
			sum.Secrets++
			sum.SecretEnvKeys = append(sum.SecretEnvKeys, step.Action.EnvKey())
		}
		switch step.Expect.Kind {
		case expect.Prompt:
			sum.Prompts++
		case expect.EndOfProcess:
			sum.EndOfProcess++
		default:
			sum.Patterns++
		}
	}
	return sum
}
