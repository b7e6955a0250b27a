package cron

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/stefanologica/firebear-importexport/core/registry"
)

// RunFunc is a scheduled task. A returned error is logged; the schedule continues.
type RunFunc func(ctx context.Context, args ...string) error

// Job is a named task with its cron schedule.
type Job struct {
	Name     string
	Schedule string
	Run      RunFunc
}

var mu sync.Mutex

// Register adds a job under a case-insensitive name. Call from init(); panics
// once the scheduler has read the registry or when name is taken.
func Register(name, schedule string, run RunFunc) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		panic("cron/registry: locked (register only during init before StartCron)")
	}
	key := strings.ToLower(name)
	jobs := getJobs()
	if _, ok := jobs[key]; ok {
		panic("cron/registry: duplicate job " + name)
	}
	jobs[key] = Job{Name: key, Schedule: schedule, Run: run}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Unregister removes a job (for tests).
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryCron)
	jobs := getJobs()
	delete(jobs, strings.ToLower(name))
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

func getJobs() map[string]Job {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCron); ok && v != nil {
		return v.(map[string]Job)
	}
	return make(map[string]Job)
}

// Jobs returns the registered jobs ordered by name and locks the registry.
func Jobs() []Job {
	jobs := getJobs()
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	if !registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	}
	return out
}

// Lookup finds a job by name, ignoring case.
func Lookup(name string) (Job, bool) {
	j, ok := getJobs()[strings.ToLower(name)]
	return j, ok
}
