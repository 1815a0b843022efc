package runner

import "os"

// EnvironmentLookup reads environment variables by name.
type EnvironmentLookup interface {
	LookupEnv(key string) (string, bool)
}

// OSEnvironment reads the process environment.
type OSEnvironment struct{}

// LookupEnv implements EnvironmentLookup.
func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvironment is a fixed set of variables.
type MapEnvironment map[string]string

// LookupEnv implements EnvironmentLookup.
func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
