package config

import "errors"

var (
	// ErrNoTasks indicates a configuration that asks for no evaluate, optimize or blend work.
	ErrNoTasks = errors.New("config: no evaluate, optimize or blend tasks configured")
	// ErrUnknownProfile indicates a task referencing a profile name that is not defined.
	ErrUnknownProfile = errors.New("config: unknown profile")
)
