// Package featureflags evaluates on/off switches from FEATURE_FLAGS.
package featureflags

import "strings"

// Known flags.
const (
	// ListCache serves list endpoints through the Redis cache.
	ListCache = "list_cache"
	// SanitizeInput strips HTML from string fields of JSON bodies. Off by
	// default: stored text is kept exactly as submitted.
	SanitizeInput = "sanitize_input"
)

// Defaults apply when a flag is absent from the configuration.
var Defaults = map[string]bool{
	ListCache:     false,
	SanitizeInput: false,
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "list_cache=on,sanitize_input=off"
type Manager struct {
	flags    map[string]string
	defaults map[string]bool
}

// NewManager creates a feature-flag manager from a comma-separated config string.
func NewManager(raw string) *Manager {
	out := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = normalize(key)
		value = normalize(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out, defaults: Defaults}
}

// Enabled reports whether a flag is on. Supported values are on/true/1 and
// off/false/0; anything else falls back to the flag's default.
func (m *Manager) Enabled(name string) bool {
	if m == nil {
		return Defaults[normalize(name)]
	}

	name = normalize(name)
	switch m.flags[name] {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}
	return m.defaults[name]
}

// Snapshot returns the evaluated status of every known or configured flag.
func (m *Manager) Snapshot() map[string]bool {
	out := make(map[string]bool, len(Defaults))
	for name := range Defaults {
		out[name] = m.Enabled(name)
	}
	if m != nil {
		for name := range m.flags {
			out[name] = m.Enabled(name)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
