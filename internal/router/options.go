package router

import (
	"github.com/vyrodovalexey/avaroute/internal/observability"
)

// DefaultAction is used for Named handlers without an action.
const DefaultAction = "index"

// Options configures registration and lookup behavior of one routing snapshot.
type Options struct {
	// IgnoreLastSlash strips a trailing slash from patterns and request paths.
	IgnoreLastSlash bool

	// NotAllowedAsNotFound reports MethodNotAllowed outcomes as NotFound.
	NotAllowedAsNotFound bool

	// AutoRoute enables convention-based resolution when no route matches.
	AutoRoute bool

	// ControllerNamespace prefixes auto-route class names, e.g. "app.controllers".
	ControllerNamespace string

	// ControllerSuffix is appended to auto-route class names, e.g. "Controller".
	ControllerSuffix string

	// DefaultAction is the action for Named handlers without one.
	DefaultAction string

	// TmpCacheNumber bounds the resolved route cache. Zero disables it.
	TmpCacheNumber int

	// GlobalParams are placeholder regex aliases shared by all routes.
	GlobalParams map[string]string

	// Controllers answers whether an auto-route class exists.
	Controllers ControllerLookup
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		IgnoreLastSlash: true,
		DefaultAction:   DefaultAction,
		TmpCacheNumber:  1000,
	}
}

// Option is a functional option for Router and Registry construction.
type Option func(*settings)

type settings struct {
	logger   observability.Logger
	recorder MatchRecorder
}

func defaultSettings() settings {
	return settings{
		logger:   observability.NopLogger(),
		recorder: nopRecorder{},
	}
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets the match recorder, typically *Metrics.
func WithRecorder(recorder MatchRecorder) Option {
	return func(s *settings) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}
