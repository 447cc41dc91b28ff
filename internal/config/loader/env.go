package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader builds a configuration map from environment variables.
//
// A variable named PREFIX_SECTION_SOME_SETTING lands at
// section.someSetting; PREFIX_WIDTH lands at width. Aliases map specific
// variables to arbitrary paths, which top-level camelCase keys need.
type EnvLoader struct {
	prefix  string
	aliases map[string]string
	raw     map[string]bool
	environ func() []string
}

// EnvOption configures an EnvLoader.
type EnvOption func(*EnvLoader)

// WithAlias loads variable name at path instead of its derived path.
func WithAlias(name, path string) EnvOption {
	return func(l *EnvLoader) { l.aliases[name] = path }
}

// WithRawStrings keeps values at paths as strings, so TITLE=1 stays "1".
func WithRawStrings(paths ...string) EnvOption {
	return func(l *EnvLoader) {
		for _, p := range paths {
			l.raw[p] = true
		}
	}
}

// WithEnviron replaces os.Environ as the variable source.
func WithEnviron(fn func() []string) EnvOption {
	return func(l *EnvLoader) { l.environ = fn }
}

// NewEnvLoader reads variables starting with prefix, which should include
// its trailing underscore. An empty prefix loads only aliases.
func NewEnvLoader(prefix string, opts ...EnvOption) *EnvLoader {
	l := &EnvLoader{
		prefix:  prefix,
		aliases: make(map[string]string),
		raw:     make(map[string]bool),
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the matching variables as a nested map. A variable set to
// the empty string is present with an empty value.
func (l *EnvLoader) Load() (map[string]any, error) {
	out := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		path, ok := l.aliases[name]
		if !ok {
			if l.prefix == "" || !strings.HasPrefix(name, l.prefix) {
				continue
			}
			path = l.pathFor(name)
		}
		if l.raw[path] {
			setPath(out, path, value)
		} else {
			setPath(out, path, convert(value))
		}
	}
	return out, nil
}

// pathFor turns PREFIX_RASTER_CAPTURE_PATH into raster.capturePath.
func (l *EnvLoader) pathFor(name string) string {
	words := strings.Split(strings.ToLower(strings.TrimPrefix(name, l.prefix)), "_")
	if len(words) == 1 {
		return words[0]
	}
	var key strings.Builder
	key.WriteString(words[1])
	for _, w := range words[2:] {
		if w != "" {
			key.WriteString(strings.ToUpper(w[:1]) + w[1:])
		}
	}
	return words[0] + "." + key.String()
}

// convert guesses a bool, int64 or float64 for s and falls back to the
// string. Only values containing a dot become floats.
func convert(s string) any {
	switch strings.ToLower(s) {
	case "":
		return s
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// setPath stores v at a dotted path, creating intermediate maps and
// replacing non-map values in the way.
func setPath(m map[string]any, path string, v any) {
	keys := strings.Split(path, ".")
	last := len(keys) - 1
	for _, k := range keys[:last] {
		sub, ok := m[k].(map[string]any)
		if !ok {
			sub = make(map[string]any)
			m[k] = sub
		}
		m = sub
	}
	m[keys[last]] = v
}
