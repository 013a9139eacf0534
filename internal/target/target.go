// Package target defines the external services drawbridge can route to.
package target

import (
	"fmt"
	"strings"
)

// Target identifies an external data service.
type Target int

const (
	// BigQuery is the columnar query service.
	BigQuery Target = iota
	// GCS is the object store.
	GCS
	// AutoML is the managed ML service.
	AutoML
)

// All returns every known target. The set is closed; new targets are added
// here and nowhere else.
func All() []Target {
	return []Target{BigQuery, GCS, AutoML}
}

// Name returns the canonical integration name used in the environment list
// (e.g. "BIGQUERY").
func (t Target) Name() string {
	switch t {
	case BigQuery:
		return "BIGQUERY"
	case GCS:
		return "GCS"
	case AutoML:
		return "AUTOML"
	default:
		return fmt.Sprintf("TARGET(%d)", int(t))
	}
}

// Service returns the human-readable service name used in diagnostics.
func (t Target) Service() string {
	switch t {
	case BigQuery:
		return "BigQuery"
	case GCS:
		return "Google Cloud Storage"
	case AutoML:
		return "Cloud AutoML"
	default:
		return t.Name()
	}
}

func (t Target) String() string { return t.Name() }

// Parse maps an integration name to a Target, case-insensitively.
func Parse(s string) (Target, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BIGQUERY":
		return BigQuery, nil
	case "GCS":
		return GCS, nil
	case "AUTOML":
		return AutoML, nil
	}
	return 0, fmt.Errorf("unknown integration target: %q", s)
}
