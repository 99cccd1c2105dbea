package ratelimit

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit for one method and path.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends in "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig reads the RATE_LIMIT_* environment variables. Values that do not
// parse are reported together rather than silently replaced by defaults.
func LoadConfig() (*Config, error) {
	env := &envReader{}

	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}, env.err()
	}

	cfg := &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         env.duration("RATE_LIMIT_IDLE_TTL", time.Hour),
		Whitelist:       addressSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       addressSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
	if err := env.err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultEndpointConfigs returns the per-endpoint limits of the web app.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Account forms: slow down credential guessing
		{Path: "/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/register", Method: "POST", Limit: 5, Window: time.Minute, Burst: 3},

		// Farmer input actions
		{Path: "/farmer-input/submit", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/farmer-input/", Method: "POST", Limit: 60, Window: time.Minute, Burst: 20},

		// Read-only JSON API
		{Path: "/api/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 60},

		// Pages and the event stream use the default limit; /health is unlimited (see MatchEndpoint)
	}
}

// envReader parses environment variables, collecting every malformed one.
type envReader struct {
	errs []error
}

func (e *envReader) lookup(key string, parse func(string) error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if err := parse(v); err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
	}
}

func (e *envReader) boolean(key string, def bool) bool {
	out := def
	e.lookup(key, func(v string) (err error) {
		out, err = strconv.ParseBool(v)
		return err
	})
	return out
}

func (e *envReader) integer(key string, def int) int {
	out := def
	e.lookup(key, func(v string) (err error) {
		out, err = strconv.Atoi(v)
		return err
	})
	return out
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	out := def
	e.lookup(key, func(v string) (err error) {
		out, err = time.ParseDuration(v)
		return err
	})
	return out
}

func (e *envReader) err() error {
	return errors.Join(e.errs...)
}

// addressSet turns a comma-separated list of client addresses into a set.
func addressSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, addr := range strings.Split(list, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			set[addr] = true
		}
	}
	return set
}
