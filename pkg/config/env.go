package config

import (
	"os"
	"sort"
	"strings"
)

// Env is an injected view of the process environment. Packages below cmd/
// resolve environment-driven behavior through an Env rather than os.Getenv
// so that resolution stays testable.
type Env map[string]string

// EnvFromOS snapshots the current process environment.
func EnvFromOS() Env {
	return ParseEnviron(os.Environ())
}

// ParseEnviron builds an Env from KEY=VALUE pairs.
func ParseEnviron(pairs []string) Env {
	env := make(Env, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// Getenv returns the value for key, or "" when unset.
func (e Env) Getenv(key string) string {
	return e[key]
}

// Environ returns the environment as sorted KEY=VALUE pairs.
func (e Env) Environ() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Bool parses a boolean-ish variable. The second result is false when the
// variable is unset or not recognizable.
func (e Env) Bool(key string) (bool, bool) {
	val := strings.TrimSpace(strings.ToLower(e[key]))
	if val == "" {
		return false, false
	}
	switch val {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}
