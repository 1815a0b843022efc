package script

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/goodbot/internal/expect"
)

// Document keys.
const (
	CommandsKey = "commands"
	ExpectKey   = "expect"
	// SecretKey marks a commands entry as a secret: {password: ENV_NAME}.
	SecretKey = "password"
)

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Parse turns a YAML document with exactly the keys "commands" and
// "expect" into a Script.
func Parse(data []byte) (*Script, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigShapeError{Index: -1, Reason: "not valid YAML", Err: err}
	}

	root, ok := asMapping(doc)
	if !ok {
		return nil, &ConfigShapeError{Index: -1, Reason: fmt.Sprintf("document must be a mapping, got %s", describe(doc))}
	}

	if err := checkKeys(root); err != nil {
		return nil, err
	}

	rawCommands, err := asList(root, CommandsKey)
	if err != nil {
		return nil, err
	}
	rawExpect, err := asList(root, ExpectKey)
	if err != nil {
		return nil, err
	}

	actions := make([]Action, 0, len(rawCommands))
	for i, entry := range rawCommands {
		action, err := parseAction(entry)
		if err != nil {
			return nil, &ConfigShapeError{Field: CommandsKey, Index: i, Reason: err.Error()}
		}
		actions = append(actions, action)
	}

	expectations := make([]expect.Expectation, 0, len(rawExpect))
	for i, entry := range rawExpect {
		token, ok := entry.(string)
		if !ok {
			return nil, &ConfigShapeError{Field: ExpectKey, Index: i, Reason: fmt.Sprintf("must be a string, got %s", describe(entry))}
		}
		exp, err := expect.Parse(token)
		if err != nil {
			return nil, &ConfigShapeError{Field: ExpectKey, Index: i, Reason: "bad pattern", Err: err}
		}
		expectations = append(expectations, exp)
	}

	return New(actions, expectations)
}

func checkKeys(root map[string]any) error {
	var unknown []string
	for key := range root {
		if key != CommandsKey && key != ExpectKey {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &ConfigShapeError{Index: -1, Reason: fmt.Sprintf("unknown keys %s; only %q and %q are allowed", strings.Join(unknown, ", "), CommandsKey, ExpectKey)}
	}
	for _, key := range []string{CommandsKey, ExpectKey} {
		if _, ok := root[key]; !ok {
			return &ConfigShapeError{Field: key, Index: -1, Reason: "missing"}
		}
	}
	return nil
}

func asList(root map[string]any, key string) ([]any, error) {
	switch v := root[key].(type) {
	case []any:
		return v, nil
	case nil:
		return nil, nil
	default:
		return nil, &ConfigShapeError{Field: key, Index: -1, Reason: fmt.Sprintf("must be a list, got %s", describe(v))}
	}
}

func parseAction(entry any) (Action, error) {
	if text, ok := entry.(string); ok {
		return Command(text), nil
	}

	m, ok := asMapping(entry)
	if !ok {
		return Action{}, fmt.Errorf("must be a string or a {%s: ENV_NAME} mapping, got %s", SecretKey, describe(entry))
	}
	if len(m) != 1 {
		return Action{}, fmt.Errorf("secret mapping must have exactly one key, got %d", len(m))
	}
	raw, ok := m[SecretKey]
	if !ok {
		return Action{}, fmt.Errorf("secret mapping key must be %q", SecretKey)
	}
	envKey, ok := raw.(string)
	if !ok || envKey == "" {
		return Action{}, fmt.Errorf("%s must name an environment variable", SecretKey)
	}
	return Secret(envKey), nil
}

// asMapping accepts the mapping types the YAML decoder produces.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case string:
		return "a string"
	case []any:
		return "a list"
	case map[string]any, map[any]any:
		return "a mapping"
	case bool:
		return "a boolean"
	case float64, float32:
		return "a number"
	case int, int64, uint64, uint32, int32:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
