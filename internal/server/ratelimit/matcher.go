package ratelimit

import (
	"strings"
)

// unlimited is returned for endpoints that are never throttled.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the configuration for method+path, or nil when the
// default limit applies. An exact path match wins over a prefix match; among
// prefixes the longest one wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		u := unlimited
		return &u
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}
