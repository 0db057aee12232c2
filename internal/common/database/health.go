package database

import (
	"context"
	"time"
)

// Pinger is any backing service that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckAll pings every named dependency and returns the failures by name.
func CheckAll(ctx context.Context, deps map[string]Pinger) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	failed := make(map[string]error)
	for name, dep := range deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			failed[name] = err
		}
	}
	return failed
}
