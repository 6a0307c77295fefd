package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// HealthCheck probes one aspect of the system after a batch of
// upgrades has been applied.
type HealthCheck func(ctx context.Context) error

// HealthRegistry is an explicit registry of named health checks. Checks
// run in registration order and the first failure stops the run.
type HealthRegistry struct {
	mu     sync.Mutex
	checks map[string]HealthCheck
	order  []string
}

func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{checks: map[string]HealthCheck{}}
}

// Register adds a named check. Registering an empty name or the same
// name twice is an error.
func (r *HealthRegistry) Register(name string, check HealthCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" || check == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("health checks need a name and a function")
	}
	if _, exists := r.checks[name]; exists {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("health check %q is already registered", name))
	}
	r.checks[name] = check
	r.order = append(r.order, name)
	return nil
}

// Names lists the registered checks in registration order.
func (r *HealthRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.order...)
}

// RunAll executes every registered check and returns the first
// failure, naming the check that failed.
func (r *HealthRegistry) RunAll(ctx context.Context) error {
	r.mu.Lock()
	names := append([]string{}, r.order...)
	checks := make([]HealthCheck, 0, len(names))
	for _, name := range names {
		checks = append(checks, r.checks[name])
	}
	r.mu.Unlock()

	for i, check := range checks {
		if err := check(ctx); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeUnavailable).
				WithMsg(fmt.Sprintf("health check %q failed", names[i])).
				WithCause(err)
		}
	}
	return nil
}
