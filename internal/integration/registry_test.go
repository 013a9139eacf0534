package integration

import (
	"bytes"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/datalab/drawbridge/internal/log"
	"github.com/datalab/drawbridge/internal/target"
)

func TestParse(t *testing.T) {
	t.Run("bigquery and gcs", func(t *testing.T) {
		r := Parse("bigquery:gcs")
		if !r.HasBigQuery() {
			t.Error("expected bigquery enabled")
		}
		if !r.HasGCS() {
			t.Error("expected gcs enabled")
		}
		if r.HasAutoML() {
			t.Error("automl should not be enabled")
		}
	})

	t.Run("empty list", func(t *testing.T) {
		r := Parse("")
		for _, tgt := range target.All() {
			if r.Has(tgt) {
				t.Errorf("empty list enabled %v", tgt)
			}
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		r := Parse("BigQuery:AUTOML")
		if !r.HasBigQuery() || !r.HasAutoML() {
			t.Errorf("enabled = %v", r.Enabled())
		}
	})

	t.Run("unknown target logged and skipped", func(t *testing.T) {
		var buf bytes.Buffer
		log.SetOutput(&buf)

		r := Parse("bigquery:unknown_target")
		if !r.HasBigQuery() {
			t.Error("expected bigquery enabled")
		}
		if got := strings.Count(buf.String(), "unknown integration target"); got != 1 {
			t.Errorf("expected 1 error logged, got %d:\n%s", got, buf.String())
		}
	})

	t.Run("duplicates idempotent", func(t *testing.T) {
		r := Parse("gcs:gcs:GCS")
		if !r.HasGCS() {
			t.Error("expected gcs enabled")
		}
		if got := r.Enabled(); len(got) != 1 {
			t.Errorf("Enabled() = %v", got)
		}
	})
}

func TestPredicatesMatchHas(t *testing.T) {
	r := Parse("bigquery:gcs:automl")
	if r.HasBigQuery() != r.Has(target.BigQuery) {
		t.Error("HasBigQuery disagrees with Has")
	}
	if r.HasGCS() != r.Has(target.GCS) {
		t.Error("HasGCS disagrees with Has")
	}
	if r.HasAutoML() != r.Has(target.AutoML) {
		t.Error("HasAutoML disagrees with Has")
	}
}

// Parse must accept any string without panicking, and any known name must be
// present regardless of case.
func TestParseNeverPanics(t *testing.T) {
	log.SetOutput(new(bytes.Buffer))
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.String().Draw(t, "raw")
		r := Parse(raw)

		for _, name := range strings.Split(raw, ":") {
			if tgt, err := target.Parse(name); err == nil {
				if !r.Has(tgt) {
					t.Fatalf("known token %q not enabled", name)
				}
			}
		}
	})
}

func TestParseKnownAnyCase(t *testing.T) {
	log.SetOutput(new(bytes.Buffer))
	rapid.Check(t, func(t *rapid.T) {
		tgt := rapid.SampledFrom(target.All()).Draw(t, "target")
		name := tgt.Name()
		cased := make([]byte, len(name))
		for i := range name {
			if rapid.Bool().Draw(t, "lower") {
				cased[i] = strings.ToLower(string(name[i]))[0]
			} else {
				cased[i] = name[i]
			}
		}
		r := Parse(string(cased))
		if !r.Has(tgt) {
			t.Fatalf("Parse(%q) did not enable %v", cased, tgt)
		}
	})
}
