package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of environment variables read by
// NewEnvLoader callers that do not choose their own.
const DefaultEnvPrefix = "TEXTROPE_"

// EnvLoader loads configuration from environment variables.
//
// A variable PREFIX_SECTION_KEY_PARTS maps to section.key_parts, so
// TEXTROPE_ROPE_MAX_LEAF_UNITS sets rope.max_leaf_units. Mappings override
// that rule for individual variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "TEXTROPE_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "TEXTROPE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, defaultEnvMapping(prefix))
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

// defaultEnvMapping returns the short aliases accepted besides the
// generic SECTION_KEY form.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LEAF_UNITS": "rope.max_leaf_units",
		prefix + "UNDO_LIMIT": "history.max_entries",
		prefix + "ENCODING":   "input.encoding",
	}
}

// Load reads environment variables and returns a configuration map.
// Empty values are treated as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || value == "" || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		setByPath(config, path, parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts TEXTROPE_HISTORY_MAX_ENTRIES to history.max_entries.
// Variables without a key part are ignored.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, key, ok := strings.Cut(name, "_")
	if !ok || section == "" || key == "" {
		return ""
	}
	return section + "." + key
}

// parseValue attempts to parse the string value into an appropriate type.
// Durations such as "5s" stay strings and are parsed by the consumer.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only values with a decimal point are floats
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}
