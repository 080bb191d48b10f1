package config

// Config holds raw cleanup settings decoded from a file. Accessors
// tolerate absent keys and mistyped values by returning the caller's
// default, so a cleanups section can be pulled out of a larger
// application config without pre-validation.
//
// Only the key types Build consumes are exposed: the recognized keys
// are booleans (exit_hook, debug_listener) and strings
// (history_backend, history_path).
type Config struct {
	settings map[string]any
}

// New wraps already-decoded settings. A nil map yields an empty
// Config whose accessors always return their defaults.
func New(settings map[string]any) Config {
	return Config{settings: settings}
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	_, ok := c.settings[key]
	return ok
}

// String returns the string at key, or def when the key is absent or
// holds a non-string.
func (c Config) String(key, def string) string {
	if s, ok := c.settings[key].(string); ok {
		return s
	}
	return def
}

// Bool returns the boolean at key, or def when the key is absent or
// holds a non-boolean.
func (c Config) Bool(key string, def bool) bool {
	if b, ok := c.settings[key].(bool); ok {
		return b
	}
	return def
}
