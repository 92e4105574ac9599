package cron

import (
	"context"
	"errors"
	"fmt"
)

// Job is one unit of scheduled work. Names are unique within a Registry and
// double as the metrics label.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

var ErrDuplicateJob = errors.New("cron job already registered")

// Registry keeps jobs in registration order.
type Registry struct {
	order []string
	jobs  map[string]Job
}

// NewRegistry registers the given jobs, rejecting nil or duplicate entries.
func NewRegistry(jobs ...Job) (*Registry, error) {
	registry := &Registry{jobs: make(map[string]Job, len(jobs))}
	for _, job := range jobs {
		if err := registry.Register(job); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (r *Registry) Register(job Job) error {
	if job == nil {
		return errors.New("cron job is nil")
	}
	name := job.Name()
	if name == "" {
		return errors.New("cron job name is required")
	}
	if r.jobs == nil {
		r.jobs = map[string]Job{}
	}
	if _, exists := r.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	r.jobs[name] = job
	r.order = append(r.order, name)
	return nil
}

// Jobs returns a copy of the registered jobs.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, 0, len(r.order))
	for _, name := range r.order {
		jobs = append(jobs, r.jobs[name])
	}
	return jobs
}

func (r *Registry) Lookup(name string) (Job, bool) {
	job, ok := r.jobs[name]
	return job, ok
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
