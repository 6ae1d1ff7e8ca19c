package lifecycle

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Component is anything with a bounded start/stop lifecycle: servers,
// workers, pollers.
type Component interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type entry struct {
	name      string
	component Component
}

type Runtime struct {
	entries []entry
}

func NewRuntime() *Runtime {
	return &Runtime{}
}

func (r *Runtime) Register(name string, component Component) {
	if component == nil {
		return
	}
	r.entries = append(r.entries, entry{name: name, component: component})
}

// Start brings components up in registration order; on failure the already
// started ones are stopped in reverse.
func (r *Runtime) Start(ctx context.Context) error {
	started := make([]entry, 0, len(r.entries))
	for _, e := range r.entries {
		log.WithField("component", e.name).Debug("starting")
		if err := e.component.Start(ctx); err != nil {
			_ = stopEntries(ctx, started)
			return fmt.Errorf("start %s: %w", e.name, err)
		}
		started = append(started, e)
	}
	return nil
}

func (r *Runtime) Stop(ctx context.Context) error {
	return stopEntries(ctx, r.entries)
}

func stopEntries(ctx context.Context, entries []entry) error {
	var stopErr error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		log.WithField("component", e.name).Debug("stopping")
		if err := e.component.Stop(ctx); err != nil {
			stopErr = errors.Join(stopErr, fmt.Errorf("stop %s: %w", e.name, err))
		}
	}
	return stopErr
}
