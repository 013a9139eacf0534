// Package integration tracks which external targets the current execution
// context is permitted to use with delegated credentials.
package integration

import (
	"strings"

	"github.com/datalab/drawbridge/internal/log"
	"github.com/datalab/drawbridge/internal/target"
)

// Registry is the set of targets enabled for this execution context. It is
// built once from configuration and read-only afterwards, so it is safe for
// concurrent readers.
type Registry struct {
	enabled map[target.Target]bool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{enabled: make(map[target.Target]bool)}
}

// Parse builds a registry from a colon-separated integration list
// (e.g. "bigquery:gcs"). Names match case-insensitively. Unknown names are
// logged and skipped; duplicates are idempotent. Parse never fails: an empty
// or entirely unrecognized list yields an empty registry.
func Parse(raw string) *Registry {
	r := New()
	if raw == "" {
		return r
	}
	for _, name := range strings.Split(raw, ":") {
		tgt, err := target.Parse(name)
		if err != nil {
			log.Error("unknown integration target", "name", name)
			continue
		}
		r.Add(tgt)
	}
	return r
}

// Add enables a target. Only used during construction.
func (r *Registry) Add(t target.Target) {
	r.enabled[t] = true
}

// Has reports whether the target is enabled.
func (r *Registry) Has(t target.Target) bool {
	return r.enabled[t]
}

// HasBigQuery reports whether the BigQuery integration is enabled.
func (r *Registry) HasBigQuery() bool { return r.Has(target.BigQuery) }

// HasGCS reports whether the Cloud Storage integration is enabled.
func (r *Registry) HasGCS() bool { return r.Has(target.GCS) }

// HasAutoML reports whether the AutoML integration is enabled.
func (r *Registry) HasAutoML() bool { return r.Has(target.AutoML) }

// Enabled returns the enabled targets in declaration order.
func (r *Registry) Enabled() []target.Target {
	var out []target.Target
	for _, t := range target.All() {
		if r.enabled[t] {
			out = append(out, t)
		}
	}
	return out
}
