package main

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidServeMode = errors.New("invalid serve mode")

// ServeMode selects which surfaces one process exposes. A static host can serve
// the pre-rendered shell while an api-mode process answers /api.
type ServeMode string

const (
	ServeModeMonolith ServeMode = "monolith"
	ServeModeWeb      ServeMode = "web"
	ServeModeAPI      ServeMode = "api"
)

// ParseServeMode normalizes the configured mode; empty means monolith.
func ParseServeMode(rawInput string) (ServeMode, error) {
	normalized := ServeMode(strings.ToLower(strings.TrimSpace(rawInput)))
	if normalized == "" {
		return ServeModeMonolith, nil
	}
	if !normalized.ServesFrontend() && !normalized.ServesAPI() {
		return "", fmt.Errorf("%w: %q", ErrInvalidServeMode, rawInput)
	}
	return normalized, nil
}

// ServesFrontend reports whether the landing page, manifest and sitemap are routed.
func (mode ServeMode) ServesFrontend() bool {
	return mode == ServeModeMonolith || mode == ServeModeWeb
}

// ServesAPI reports whether the /api group is routed.
func (mode ServeMode) ServesAPI() bool {
	return mode == ServeModeMonolith || mode == ServeModeAPI
}
