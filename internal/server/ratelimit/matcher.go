package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
//
// A config path matches exactly, or as a prefix when it ends with "/", and a "*" segment
// matches any single path segment ("/resumes/*/export.pdf").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// health checks are never limited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && matchSegments(config.Path, path, false) {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && matchSegments(config.Path, path, true) {
			return config
		}
	}

	return nil
}

// matchSegments compares pattern and path segment by segment. With prefix set, path may
// continue past the end of pattern.
func matchSegments(pattern, path string, prefix bool) bool {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	if prefix {
		if len(pathParts) < len(patternParts) {
			return false
		}
	} else if len(pathParts) != len(patternParts) {
		return false
	}

	for i, part := range patternParts {
		if part != "*" && part != pathParts[i] {
			return false
		}
	}
	return true
}
